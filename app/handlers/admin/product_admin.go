package admin

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"github.com/devrodri-com/mutter-games-dev/app/utils/httperr"
	"github.com/devrodri-com/mutter-games-dev/app/utils/renderer"
	"github.com/devrodri-com/mutter-games-dev/app/utils/slugutil"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

// CatalogCache is the piece of the storefront cache the admin surface has to
// drop after every product mutation.
type CatalogCache interface {
	Invalidate(ctx context.Context)
}

// ProductAdminHandler is the back-office product CRUD. Price and stock are
// never accepted from the payload; they are derived from the variant options
// on every write.
type ProductAdminHandler struct {
	rnd        *render.Render
	products   repositories.ProductRepositoryImpl
	categories repositories.CategoryRepositoryImpl
	cache      CatalogCache
	validate   *validator.Validate
}

func NewProductAdminHandler(
	rnd *render.Render,
	products repositories.ProductRepositoryImpl,
	categories repositories.CategoryRepositoryImpl,
	cache CatalogCache,
) *ProductAdminHandler {
	return &ProductAdminHandler{
		rnd:        rnd,
		products:   products,
		categories: categories,
		cache:      cache,
		validate:   validator.New(),
	}
}

type variantOptionPayload struct {
	Value    string  `json:"value" validate:"required"`
	PriceUSD float64 `json:"priceUSD" validate:"gte=0"`
	Stock    int     `json:"stock" validate:"gte=0"`
}

type variantPayload struct {
	Label   models.LocalizedText   `json:"label"`
	Options []variantOptionPayload `json:"options" validate:"required,min=1,dive"`
}

type productPayload struct {
	Title              models.LocalizedText `json:"title"`
	Slug               string               `json:"slug"`
	Description        string               `json:"description"`
	CategoryID         string               `json:"categoryId" validate:"required"`
	SubcategoryID      string               `json:"subcategoryId" validate:"required"`
	Tipo               string               `json:"tipo"`
	Images             []string             `json:"images"`
	Active             *bool                `json:"active"`
	AllowCustomization bool                 `json:"allowCustomization"`
	CustomName         string               `json:"customName"`
	CustomNumber       string               `json:"customNumber"`
	Orden              int                  `json:"orden"`
	Variants           []variantPayload     `json:"variants" validate:"required,min=1,dive"`
}

func toVariants(payload []variantPayload) []models.Variant {
	variants := make([]models.Variant, 0, len(payload))
	for _, v := range payload {
		variant := models.Variant{Label: v.Label}
		for _, opt := range v.Options {
			variant.Options = append(variant.Options, models.VariantOption{
				Value:    opt.Value,
				PriceUSD: decimal.NewFromFloat(opt.PriceUSD),
				Stock:    opt.Stock,
			})
		}
		variants = append(variants, variant)
	}
	return variants
}

// resolveTaxonomy turns the payload ids into the denormalized refs stored on
// the product row.
func (h *ProductAdminHandler) resolveTaxonomy(ctx context.Context, categoryID, subcategoryID string) (models.CategoryRef, models.SubcategoryRef, error) {
	category, err := h.categories.GetByID(ctx, categoryID)
	if err != nil {
		return models.CategoryRef{}, models.SubcategoryRef{}, httperr.Wrap(httperr.Internal, "Failed to resolve category", err)
	}
	if category == nil {
		return models.CategoryRef{}, models.SubcategoryRef{}, httperr.New(httperr.InvalidInput, "Unknown category")
	}
	for _, sub := range category.Subcategories {
		if sub.ID == subcategoryID {
			return models.CategoryRef{ID: category.ID, Name: category.Name.Es},
				models.SubcategoryRef{ID: sub.ID, Name: sub.Name.Es, CategoryID: category.ID},
				nil
		}
	}
	return models.CategoryRef{}, models.SubcategoryRef{}, httperr.New(httperr.InvalidInput, "Subcategory does not belong to the category")
}

// uniqueSlug derives the slug from the Spanish title and the subcategory
// name, suffixing on collision.
func (h *ProductAdminHandler) uniqueSlug(ctx context.Context, requested, title, subName string) (string, error) {
	candidate := requested
	if candidate == "" {
		candidate = slugutil.Make(title + " " + subName)
	} else {
		candidate = slugutil.Make(candidate)
	}
	existing, err := h.products.GetBySlug(ctx, candidate)
	if err != nil {
		return "", err
	}
	if existing != nil {
		candidate = slugutil.Make(candidate + "-" + uuid.New().String()[:8])
	}
	return candidate, nil
}

// List returns every product, inactive and out-of-stock included.
func (h *ProductAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetAll(r.Context())
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to load products", err))
		return
	}
	h.rnd.JSON(w, http.StatusOK, products)
}

func (h *ProductAdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to load product", err))
		return
	}
	if product == nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.NotFound, "Product not found"))
		return
	}
	h.rnd.JSON(w, http.StatusOK, product)
}

func (h *ProductAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Invalid request body"))
		return
	}
	if payload.Title.IsEmpty() {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Title is required"))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.InvalidInput, "Invalid product payload", err))
		return
	}

	ctx := r.Context()
	categoryRef, subRef, err := h.resolveTaxonomy(ctx, payload.CategoryID, payload.SubcategoryID)
	if err != nil {
		renderer.JSONError(h.rnd, w, err)
		return
	}

	slug, err := h.uniqueSlug(ctx, payload.Slug, payload.Title.Es, subRef.Name)
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to derive slug", err))
		return
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}
	product := &models.Product{
		ID:                 uuid.New().String(),
		Slug:               slug,
		Title:              payload.Title,
		Description:        payload.Description,
		Category:           categoryRef,
		Subcategory:        subRef,
		Tipo:               payload.Tipo,
		Images:             payload.Images,
		Active:             active,
		AllowCustomization: payload.AllowCustomization,
		CustomName:         payload.CustomName,
		CustomNumber:       payload.CustomNumber,
		Orden:              payload.Orden,
		Variants:           toVariants(payload.Variants),
	}
	if err := product.DeriveAggregates(); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Product requires at least one variant option"))
		return
	}

	if err := h.products.Create(ctx, product); err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to create product", err))
		return
	}
	h.cache.Invalidate(ctx)
	h.rnd.JSON(w, http.StatusCreated, map[string]string{"id": product.ID, "slug": product.Slug})
}

type productUpdatePayload struct {
	Title              *models.LocalizedText `json:"title"`
	Description        *string               `json:"description"`
	CategoryID         *string               `json:"categoryId"`
	SubcategoryID      *string               `json:"subcategoryId"`
	Tipo               *string               `json:"tipo"`
	Images             []string              `json:"images"`
	Active             *bool                 `json:"active"`
	AllowCustomization *bool                 `json:"allowCustomization"`
	CustomName         *string               `json:"customName"`
	CustomNumber       *string               `json:"customNumber"`
	Orden              *int                  `json:"orden"`
	Variants           []variantPayload      `json:"variants"`
}

// Update applies a partial update. When variants change the aggregates are
// recomputed before the row is written.
func (h *ProductAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload productUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Invalid request body"))
		return
	}

	ctx := r.Context()
	product, err := h.products.GetByID(ctx, mux.Vars(r)["id"])
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to load product", err))
		return
	}
	if product == nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.NotFound, "Product not found"))
		return
	}

	if payload.Title != nil {
		product.Title = *payload.Title
	}
	if payload.Description != nil {
		product.Description = *payload.Description
	}
	if payload.CategoryID != nil && payload.SubcategoryID != nil {
		categoryRef, subRef, terr := h.resolveTaxonomy(ctx, *payload.CategoryID, *payload.SubcategoryID)
		if terr != nil {
			renderer.JSONError(h.rnd, w, terr)
			return
		}
		product.Category = categoryRef
		product.Subcategory = subRef
	}
	if payload.Tipo != nil {
		product.Tipo = *payload.Tipo
	}
	if payload.Images != nil {
		product.Images = payload.Images
	}
	if payload.Active != nil {
		product.Active = *payload.Active
	}
	if payload.AllowCustomization != nil {
		product.AllowCustomization = *payload.AllowCustomization
	}
	if payload.CustomName != nil {
		product.CustomName = *payload.CustomName
	}
	if payload.CustomNumber != nil {
		product.CustomNumber = *payload.CustomNumber
	}
	if payload.Orden != nil {
		product.Orden = *payload.Orden
	}
	if payload.Variants != nil {
		product.Variants = toVariants(payload.Variants)
		if err := product.DeriveAggregates(); err != nil {
			renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Product requires at least one variant option"))
			return
		}
	}

	if err := h.products.Update(ctx, product); err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to update product", err))
		return
	}
	h.cache.Invalidate(ctx)
	h.rnd.JSON(w, http.StatusOK, product)
}

func (h *ProductAdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	product, err := h.products.GetByID(ctx, id)
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to load product", err))
		return
	}
	if product == nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.NotFound, "Product not found"))
		return
	}

	if err := h.products.Delete(ctx, id); err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to delete product", err))
		return
	}
	h.cache.Invalidate(ctx)
	h.rnd.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
