package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrNoVariantOptions = errors.New("product has no variant options")

type VariantOption struct {
	Value    string          `json:"value"`
	PriceUSD decimal.Decimal `json:"priceUSD"`
	Stock    int             `json:"stock"`
}

// Variant is one configurable axis of a product (e.g. size) with its
// concrete options, each carrying its own price and stock.
type Variant struct {
	Label   LocalizedText   `json:"label"`
	Options []VariantOption `json:"options"`
}

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SubcategoryRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
}

type Product struct {
	ID                 string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Slug               string          `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Title              LocalizedText   `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description        string          `gorm:"type:text" json:"description"`
	Category           CategoryRef     `gorm:"embedded;embeddedPrefix:category_" json:"category"`
	Subcategory        SubcategoryRef  `gorm:"embedded;embeddedPrefix:subcategory_" json:"subcategory"`
	Tipo               string          `gorm:"size:100;index" json:"tipo"`
	Images             []string        `gorm:"serializer:json;type:json" json:"images"`
	Active             bool            `gorm:"index" json:"active"`
	AllowCustomization bool            `json:"allowCustomization"`
	CustomName         string          `gorm:"size:100" json:"customName"`
	CustomNumber       string          `gorm:"size:100" json:"customNumber"`
	Orden              int             `gorm:"default:0" json:"orden"`
	PriceUSD           decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"priceUSD"`
	StockTotal         int             `gorm:"not null" json:"stockTotal"`
	Variants           []Variant       `gorm:"serializer:json;type:json" json:"variants"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
}

// DeriveAggregates recomputes PriceUSD and StockTotal from the variant
// options. These two fields are never authored directly; every create and
// update path must call this after touching Variants.
func (p *Product) DeriveAggregates() error {
	min := decimal.Zero
	found := false
	stock := 0
	for _, v := range p.Variants {
		for _, opt := range v.Options {
			if opt.PriceUSD.IsNegative() {
				continue
			}
			if !found || opt.PriceUSD.LessThan(min) {
				min = opt.PriceUSD
				found = true
			}
			if opt.Stock > 0 {
				stock += opt.Stock
			}
		}
	}
	if !found {
		return ErrNoVariantOptions
	}
	p.PriceUSD = min
	p.StockTotal = stock
	return nil
}

// MinDisplayPrice is the price used by the catalog comparators: the minimum
// across the top-level PriceUSD and every variant option price.
func (p *Product) MinDisplayPrice() decimal.Decimal {
	min := p.PriceUSD
	for _, v := range p.Variants {
		for _, opt := range v.Options {
			if opt.PriceUSD.IsNegative() {
				continue
			}
			if opt.PriceUSD.LessThan(min) {
				min = opt.PriceUSD
			}
		}
	}
	return min
}

// FirstImage returns the primary image URL, if any.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
