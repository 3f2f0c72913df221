package fakers

import (
	"fmt"
	"math/rand"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

var productTypes = []string{"remera", "camiseta", "accesorio", "taza"}

var variantSizes = []string{"S", "M", "L", "XL"}

// ProductFaker builds a catalog product under the given taxonomy pair. Price
// and stock are not faked directly; they are derived from the generated
// variant options like every real write path does.
func ProductFaker(category *models.Category, sub *models.Subcategory) *models.Product {
	name := faker.Word() + " " + faker.Word()

	options := make([]models.VariantOption, 0, len(variantSizes))
	for _, size := range variantSizes {
		options = append(options, models.VariantOption{
			Value:    size,
			PriceUSD: fakePrice(),
			Stock:    rand.Intn(20) + 1,
		})
	}

	product := &models.Product{
		ID:          uuid.New().String(),
		Slug:        slug.Make(name + "-" + uuid.NewString()[:6]),
		Title:       models.LocalizedText{Es: name, En: name},
		Description: faker.Paragraph(),
		Category: models.CategoryRef{
			ID:   category.ID,
			Name: category.Name.Es,
		},
		Subcategory: models.SubcategoryRef{
			ID:         sub.ID,
			Name:       sub.Name.Es,
			CategoryID: category.ID,
		},
		Tipo:   productTypes[rand.Intn(len(productTypes))],
		Images: []string{"/images/products/placeholder.jpg"},
		Active: true,
		Orden:  rand.Intn(100),
		Variants: []models.Variant{
			{
				Label:   models.LocalizedText{Es: "Tamaño", En: "Size"},
				Options: options,
			},
		},
	}
	if err := product.DeriveAggregates(); err != nil {
		panic(fmt.Sprintf("faked product has no options: %v", err))
	}
	return product
}

func fakePrice() decimal.Decimal {
	return decimal.NewFromFloat(float64(rand.Intn(9000)+500) / 100)
}
