package repositories

import (
	"context"
	"errors"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"gorm.io/gorm"
)

type OrderRepositoryImpl interface {
	Create(ctx context.Context, order *models.Order) error
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByUID(ctx context.Context, uid string) ([]models.Order, error)
	UpdateEstado(ctx context.Context, id, estado string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepositoryImpl {
	return &orderRepository{db}
}

func (o *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return o.db.WithContext(ctx).Create(order).Error
}

func (o *orderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := o.db.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (o *orderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := o.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (o *orderRepository) GetByUID(ctx context.Context, uid string) ([]models.Order, error) {
	var orders []models.Order
	if err := o.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (o *orderRepository) UpdateEstado(ctx context.Context, id, estado string) error {
	res := o.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("estado", estado)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
