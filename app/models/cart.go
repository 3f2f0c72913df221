package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one cart line. Two items are the same line iff product id,
// variant id and variant label all match; quantity is not part of the
// identity and is summed when lines merge.
type LineItem struct {
	ProductID    string          `json:"productId"`
	VariantID    string          `json:"variantId"`
	VariantLabel string          `json:"variantLabel"`
	Title        LocalizedText   `json:"title"`
	Image        string          `json:"image,omitempty"`
	PriceUSD     decimal.Decimal `json:"priceUSD"`
	Quantity     int             `json:"quantity"`
	CustomName   string          `json:"customName,omitempty"`
	CustomNumber string          `json:"customNumber,omitempty"`
}

func (it LineItem) SameAs(other LineItem) bool {
	return it.ProductID == other.ProductID &&
		it.VariantID == other.VariantID &&
		it.VariantLabel == other.VariantLabel
}

// Cart is the remote per-identity cart document.
type Cart struct {
	UID       string     `gorm:"size:64;primaryKey" json:"uid"`
	Items     []LineItem `gorm:"serializer:json;type:json" json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
