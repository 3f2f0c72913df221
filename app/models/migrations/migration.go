package migrations

import (
	"github.com/devrodri-com/mutter-games-dev/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Subcategory{},
		&models.Product{},
		&models.Cart{},
		&models.Order{},
		&models.AdminUser{},
		&models.Client{},
	)
}
