package seeders

import (
	"log"

	"github.com/devrodri-com/mutter-games-dev/app/db/fakers"
	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/services"
	"gorm.io/gorm"
)

const (
	seedCategories          = 3
	seedProductsPerCategory = 12
)

// DBSeed populates a development database: a small taxonomy, a catalog large
// enough to exercise pagination, and a superadmin account.
func DBSeed(db *gorm.DB) error {
	for i := 0; i < seedCategories; i++ {
		category := fakers.CategoryFaker(i)
		if err := db.Create(category).Error; err != nil {
			return err
		}
		for j := 0; j < seedProductsPerCategory; j++ {
			sub := &category.Subcategories[j%len(category.Subcategories)]
			if err := db.Create(fakers.ProductFaker(category, sub)).Error; err != nil {
				return err
			}
		}
	}

	if err := seedSuperadmin(db); err != nil {
		return err
	}
	log.Println("✅ Seed complete")
	return nil
}

func seedSuperadmin(db *gorm.DB) error {
	hash, err := services.HashPassword("changeme123")
	if err != nil {
		return err
	}
	user := &models.AdminUser{
		Email:        "admin@muttergames.com",
		Nombre:       "Superadmin",
		Rol:          models.RoleSuperadmin,
		Activo:       true,
		PasswordHash: hash,
	}
	return db.FirstOrCreate(user, "email = ?", user.Email).Error
}
