package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"github.com/devrodri-com/mutter-games-dev/app/utils/calc"
)

var (
	ErrEmptyOrder   = errors.New("order has no items")
	ErrInvalidTotal = errors.New("order total must be positive")
)

// CheckoutService persists submitted orders and applies the best-effort stock
// decrement that follows a successful submission.
type CheckoutService struct {
	orders   repositories.OrderRepositoryImpl
	products repositories.ProductRepositoryImpl
}

func NewCheckoutService(orders repositories.OrderRepositoryImpl, products repositories.ProductRepositoryImpl) *CheckoutService {
	return &CheckoutService{orders: orders, products: products}
}

// CreateOrder validates and persists the order snapshot, then decrements the
// stock of each purchased option. The decrement is deliberately not
// transactional with the order write: a failed decrement logs and moves on,
// the order itself stands.
func (s *CheckoutService) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if len(order.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	total := calc.CartTotal(order.Items, order.Shipping.Departamento)
	if !total.IsPositive() {
		return nil, ErrInvalidTotal
	}
	order.Total = total

	if order.PaymentMethod == "" {
		order.PaymentMethod = models.PaymentMethodMercadoPago
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = models.PaymentStatusPending
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		if err := s.products.DecrementOptionStock(ctx, item.ProductID, item.VariantID, item.Quantity); err != nil {
			log.Printf("CheckoutService: stock decrement failed for product %s option %s: %v", item.ProductID, item.VariantID, err)
		}
	}
	return order, nil
}

// OrdersForUID lists the order history of one identity, newest first.
func (s *CheckoutService) OrdersForUID(ctx context.Context, uid string) ([]models.Order, error) {
	return s.orders.GetByUID(ctx, uid)
}
