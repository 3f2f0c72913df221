package calc

import (
	"testing"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/shopspring/decimal"
)

func TestCartTotalAppliesMontevideoSurcharge(t *testing.T) {
	items := []models.LineItem{
		{PriceUSD: decimal.NewFromFloat(19.99), Quantity: 2},
		{PriceUSD: decimal.NewFromInt(5), Quantity: 1},
	}

	base := CartTotal(items, "Canelones")
	if !base.Equal(decimal.NewFromFloat(44.98)) {
		t.Fatalf("expected 44.98, got %s", base)
	}

	mvd := CartTotal(items, "Montevideo")
	if !mvd.Sub(base).Equal(decimal.NewFromInt(169)) {
		t.Fatalf("expected flat 169 surcharge, got %s", mvd.Sub(base))
	}
}

func TestItemsSubtotalFloorsQuantity(t *testing.T) {
	items := []models.LineItem{{PriceUSD: decimal.NewFromInt(10), Quantity: 0}}
	if got := ItemsSubtotal(items); !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("zero quantity must count as 1, got %s", got)
	}
}
