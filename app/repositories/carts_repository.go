package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepositoryImpl is the remote per-identity cart document. Access is
// last-write-wins; the reconciliation rules live in the cart service.
type CartRepositoryImpl interface {
	Load(ctx context.Context, uid string) ([]models.LineItem, error)
	Save(ctx context.Context, uid string, items []models.LineItem) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepositoryImpl {
	return &cartRepository{db}
}

// Load returns the stored line items for uid; a missing document reads as an
// empty cart, not an error.
func (c *cartRepository) Load(ctx context.Context, uid string) ([]models.LineItem, error) {
	var cart models.Cart
	err := c.db.WithContext(ctx).Where("uid = ?", uid).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cart.Items, nil
}

func (c *cartRepository) Save(ctx context.Context, uid string, items []models.LineItem) error {
	if items == nil {
		items = []models.LineItem{}
	}
	cart := models.Cart{UID: uid, Items: items, UpdatedAt: time.Now()}
	return c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
		}).
		Create(&cart).Error
}
