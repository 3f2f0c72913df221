package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDeriveAggregates(t *testing.T) {
	p := Product{
		Variants: []Variant{
			{
				Label: LocalizedText{Es: "Tamaño"},
				Options: []VariantOption{
					{Value: "S", PriceUSD: decimal.NewFromFloat(24.50), Stock: 3},
					{Value: "M", PriceUSD: decimal.NewFromFloat(19.99), Stock: 7},
				},
			},
			{
				Label: LocalizedText{Es: "Color"},
				Options: []VariantOption{
					{Value: "Rojo", PriceUSD: decimal.NewFromFloat(21.00), Stock: 2},
				},
			},
		},
	}

	if err := p.DeriveAggregates(); err != nil {
		t.Fatal(err)
	}
	if !p.PriceUSD.Equal(decimal.NewFromFloat(19.99)) {
		t.Fatalf("expected min option price 19.99, got %s", p.PriceUSD)
	}
	if p.StockTotal != 12 {
		t.Fatalf("expected summed stock 12, got %d", p.StockTotal)
	}
}

func TestDeriveAggregatesRequiresOptions(t *testing.T) {
	p := Product{Variants: []Variant{{Label: LocalizedText{Es: "Tamaño"}}}}
	if err := p.DeriveAggregates(); !errors.Is(err, ErrNoVariantOptions) {
		t.Fatalf("expected ErrNoVariantOptions, got %v", err)
	}
}

func TestDeriveAggregatesIgnoresNegativePrices(t *testing.T) {
	p := Product{
		Variants: []Variant{
			{
				Options: []VariantOption{
					{Value: "S", PriceUSD: decimal.NewFromInt(-5), Stock: 1},
					{Value: "M", PriceUSD: decimal.NewFromInt(8), Stock: 2},
				},
			},
		},
	}
	if err := p.DeriveAggregates(); err != nil {
		t.Fatal(err)
	}
	if !p.PriceUSD.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("negative prices must be ignored, got %s", p.PriceUSD)
	}
}

func TestMinDisplayPrice(t *testing.T) {
	p := Product{
		PriceUSD: decimal.NewFromInt(15),
		Variants: []Variant{
			{Options: []VariantOption{{Value: "S", PriceUSD: decimal.NewFromInt(12)}}},
		},
	}
	if !p.MinDisplayPrice().Equal(decimal.NewFromInt(12)) {
		t.Fatalf("expected 12, got %s", p.MinDisplayPrice())
	}
}

func TestLineItemIdentity(t *testing.T) {
	a := LineItem{ProductID: "p1", VariantID: "M", VariantLabel: "Tamaño", Quantity: 1}
	b := LineItem{ProductID: "p1", VariantID: "M", VariantLabel: "Tamaño", Quantity: 9}
	c := LineItem{ProductID: "p1", VariantID: "L", VariantLabel: "Tamaño", Quantity: 1}

	if !a.SameAs(b) {
		t.Fatal("quantity must not be part of the line identity")
	}
	if a.SameAs(c) {
		t.Fatal("different variant ids are different lines")
	}
}

func TestLocalizedTextFallsBackToSpanish(t *testing.T) {
	both := LocalizedText{Es: "Remera", En: "T-Shirt"}
	esOnly := LocalizedText{Es: "Remera"}

	if both.In("en") != "T-Shirt" || both.In("es") != "Remera" {
		t.Fatal("expected per-language text")
	}
	if esOnly.In("en") != "Remera" {
		t.Fatal("missing English must fall back to Spanish")
	}
}

func TestLocalizedTextAcceptsStringAndObject(t *testing.T) {
	var fromString LocalizedText
	if err := json.Unmarshal([]byte(`"Remera"`), &fromString); err != nil {
		t.Fatal(err)
	}
	if fromString.Es != "Remera" || fromString.En != "" {
		t.Fatalf("plain string must land in Spanish, got %+v", fromString)
	}

	var fromObject LocalizedText
	if err := json.Unmarshal([]byte(`{"es": "Remera", "en": "T-Shirt"}`), &fromObject); err != nil {
		t.Fatal(err)
	}
	if fromObject.Es != "Remera" || fromObject.En != "T-Shirt" {
		t.Fatalf("object form must keep both languages, got %+v", fromObject)
	}
}
