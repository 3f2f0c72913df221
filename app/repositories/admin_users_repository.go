package repositories

import (
	"context"
	"errors"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"gorm.io/gorm"
)

type AdminUserRepositoryImpl interface {
	GetAll(ctx context.Context) ([]models.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Create(ctx context.Context, user *models.AdminUser) error
	Update(ctx context.Context, user *models.AdminUser) error
	Delete(ctx context.Context, email string) error
}

type adminUserRepository struct {
	db *gorm.DB
}

func NewAdminUserRepository(db *gorm.DB) AdminUserRepositoryImpl {
	return &adminUserRepository{db}
}

func (a *adminUserRepository) GetAll(ctx context.Context) ([]models.AdminUser, error) {
	var users []models.AdminUser
	if err := a.db.WithContext(ctx).Order("email ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (a *adminUserRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := a.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (a *adminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	return a.db.WithContext(ctx).Create(user).Error
}

func (a *adminUserRepository) Update(ctx context.Context, user *models.AdminUser) error {
	return a.db.WithContext(ctx).Save(user).Error
}

func (a *adminUserRepository) Delete(ctx context.Context, email string) error {
	res := a.db.WithContext(ctx).Where("email = ?", email).Delete(&models.AdminUser{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
