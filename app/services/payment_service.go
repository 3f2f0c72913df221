package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"
)

var ErrNoValidItems = errors.New("no valid items found")

const preferenceCurrency = "UYU"

// CheckoutItem is the strict ingress shape for preference creation; the
// handler normalizes loose payloads into it before the service runs.
type CheckoutItem struct {
	Title    models.LocalizedText
	PriceUSD decimal.Decimal
	Quantity int
}

// PreferenceClient is the slice of the gateway SDK the service needs.
type PreferenceClient interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

// PaymentService builds checkout preferences against the payment gateway and
// hands back the redirect URL the buyer completes payment on.
type PaymentService struct {
	client  PreferenceClient
	baseURL string
}

func NewPaymentService(accessToken, baseURL string) (*PaymentService, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to configure payment gateway: %w", err)
	}
	return &PaymentService{
		client:  preference.NewClient(cfg),
		baseURL: baseURL,
	}, nil
}

// NewPaymentServiceWithClient injects a gateway client directly; tests use it.
func NewPaymentServiceWithClient(client PreferenceClient, baseURL string) *PaymentService {
	return &PaymentService{client: client, baseURL: baseURL}
}

// BuildPreferenceItems normalizes cart lines into gateway line items:
// quantities floored to at least 1, lines without a positive price dropped,
// and the shipping cost appended as its own line when positive.
func BuildPreferenceItems(items []CheckoutItem, shippingCost decimal.Decimal) []preference.ItemRequest {
	out := make([]preference.ItemRequest, 0, len(items)+1)
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		price, _ := it.PriceUSD.Float64()
		if price <= 0 {
			continue
		}
		title := it.Title.In("es")
		if title == "" {
			title = "Producto"
		}
		out = append(out, preference.ItemRequest{
			Title:      title,
			Quantity:   qty,
			UnitPrice:  price,
			CurrencyID: preferenceCurrency,
		})
	}

	if shippingCost.IsPositive() {
		cost, _ := shippingCost.Float64()
		out = append(out, preference.ItemRequest{
			Title:      "Costo de envío",
			Quantity:   1,
			UnitPrice:  cost,
			CurrencyID: preferenceCurrency,
		})
	}
	return out
}

// CreatePreference submits the preference and returns the checkout redirect
// URL. Gateway failures are surfaced to the caller; retrying is the buyer's
// decision.
func (s *PaymentService) CreatePreference(ctx context.Context, items []CheckoutItem, shipping models.ShippingInfo) (string, error) {
	normalized := BuildPreferenceItems(items, shipping.ShippingCost)
	if len(normalized) == 0 {
		return "", ErrNoValidItems
	}

	payerName := shipping.NombreCompleto
	if payerName == "" {
		payerName = "No especificado"
	}
	payerEmail := shipping.Email
	if payerEmail == "" {
		payerEmail = "noemail@muttergames.com"
	}

	resp, err := s.client.Create(ctx, preference.Request{
		Items: normalized,
		Payer: &preference.PayerRequest{
			Name:  payerName,
			Email: payerEmail,
		},
		BackURLs: &preference.BackURLsRequest{
			Success: s.baseURL + "/success",
			Failure: s.baseURL + "/failure",
			Pending: s.baseURL + "/pending",
		},
		AutoReturn: "approved",
	})
	if err != nil {
		return "", fmt.Errorf("failed to create payment preference: %w", err)
	}

	initPoint := resp.InitPoint
	if initPoint == "" {
		initPoint = resp.SandboxInitPoint
	}
	if initPoint == "" {
		return "", fmt.Errorf("payment gateway returned no init point")
	}
	return initPoint, nil
}
