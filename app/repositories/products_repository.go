package repositories

import (
	"context"
	"errors"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"gorm.io/gorm"
)

// CatalogFilters are the only predicates pushed down to the store: equality
// filters combinable with the pagination cursor without extra indexes.
type CatalogFilters struct {
	CategoryID    string
	SubcategoryID string
}

// ProductPage is one fetched page. Cursor is an opaque continuation token
// (the id of the last returned row) and HasMore reflects whether the store
// returned a limit+1-th row.
type ProductPage struct {
	Products []models.Product
	Cursor   string
	HasMore  bool
}

type ProductRepositoryImpl interface {
	FetchPage(ctx context.Context, filters CatalogFilters, cursor string, limit int) (*ProductPage, error)
	FetchAllActive(ctx context.Context) ([]models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	DecrementOptionStock(ctx context.Context, productID, optionValue string, qty int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

// FetchPage fetches limit+1 rows ordered by id only; no other order-by is
// pushed to the store so no composite index is required. The excess row is
// trimmed and its presence sets HasMore.
func (p *productRepository) FetchPage(ctx context.Context, filters CatalogFilters, cursor string, limit int) (*ProductPage, error) {
	q := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("active = ?", true)

	if filters.CategoryID != "" {
		q = q.Where("category_id = ?", filters.CategoryID)
	}
	if filters.SubcategoryID != "" {
		q = q.Where("subcategory_id = ?", filters.SubcategoryID)
	}
	if cursor != "" {
		q = q.Where("id > ?", cursor)
	}

	var products []models.Product
	if err := q.Order("id ASC").Limit(limit + 1).Find(&products).Error; err != nil {
		return nil, err
	}

	page := &ProductPage{HasMore: len(products) > limit}
	if page.HasMore {
		products = products[:limit]
	}
	page.Products = products
	if len(products) > 0 {
		page.Cursor = products[len(products)-1].ID
	}
	return page, nil
}

func (p *productRepository) FetchAllActive(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("active = ?", true).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := p.db.WithContext(ctx).Model(&models.Product{}).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("slug = ?", slug).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Create(product).Error
}

func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Save(product).Error
}

func (p *productRepository) Delete(ctx context.Context, id string) error {
	return p.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// DecrementOptionStock lowers the stock of the option matching optionValue
// and re-derives the product aggregates. It is invoked best-effort after
// order creation and is not transactional with it.
func (p *productRepository) DecrementOptionStock(ctx context.Context, productID, optionValue string, qty int) error {
	product, err := p.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return gorm.ErrRecordNotFound
	}

	found := false
	for vi := range product.Variants {
		for oi := range product.Variants[vi].Options {
			opt := &product.Variants[vi].Options[oi]
			if opt.Value != optionValue {
				continue
			}
			opt.Stock -= qty
			if opt.Stock < 0 {
				opt.Stock = 0
			}
			found = true
		}
	}
	if !found {
		return gorm.ErrRecordNotFound
	}
	if err := product.DeriveAggregates(); err != nil {
		return err
	}
	return p.Update(ctx, product)
}
