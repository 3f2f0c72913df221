package repositories

import (
	"context"
	"errors"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"gorm.io/gorm"
)

type ClientRepositoryImpl interface {
	GetAll(ctx context.Context) ([]models.Client, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepositoryImpl {
	return &clientRepository{db}
}

func (c *clientRepository) GetAll(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := c.db.WithContext(ctx).Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (c *clientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	err := c.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (c *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return c.db.WithContext(ctx).Create(client).Error
}

func (c *clientRepository) Delete(ctx context.Context, id string) error {
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Client{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
