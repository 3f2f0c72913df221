package fakers

import (
	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
)

// CategoryFaker builds a category with a couple of subcategories attached.
func CategoryFaker(orden int) *models.Category {
	categoryID := uuid.New().String()
	name := faker.Word()

	subs := make([]models.Subcategory, 0, 2)
	for i := 0; i < 2; i++ {
		subName := faker.Word()
		subs = append(subs, models.Subcategory{
			ID:         uuid.New().String(),
			Name:       models.LocalizedText{Es: subName, En: subName},
			CategoryID: categoryID,
		})
	}

	return &models.Category{
		ID:            categoryID,
		Name:          models.LocalizedText{Es: name, En: name},
		Orden:         orden,
		Subcategories: subs,
	}
}
