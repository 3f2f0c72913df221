package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"github.com/devrodri-com/mutter-games-dev/app/services"
	"github.com/devrodri-com/mutter-games-dev/app/utils/format"
	"github.com/devrodri-com/mutter-games-dev/app/utils/httperr"
	"github.com/devrodri-com/mutter-games-dev/app/utils/renderer"
	"github.com/devrodri-com/mutter-games-dev/app/utils/sessions"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

// ShopHandler serves the storefront listing. Each visitor gets one CatalogView
// keyed by the session's view id; the view holds the pagination and filter
// state across requests.
type ShopHandler struct {
	rnd        *render.Render
	source     services.ProductSource
	products   repositories.ProductRepositoryImpl
	categories repositories.CategoryRepositoryImpl
	session    sessions.SessionStore

	mu    sync.Mutex
	views map[string]*services.CatalogView
}

func NewShopHandler(
	rnd *render.Render,
	source services.ProductSource,
	products repositories.ProductRepositoryImpl,
	categories repositories.CategoryRepositoryImpl,
	session sessions.SessionStore,
) *ShopHandler {
	return &ShopHandler{
		rnd:        rnd,
		source:     source,
		products:   products,
		categories: categories,
		session:    session,
		views:      make(map[string]*services.CatalogView),
	}
}

type productView struct {
	models.Product
	PriceFormatted string `json:"priceFormatted"`
}

func toProductViews(products []models.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, productView{
			Product:        p,
			PriceFormatted: format.FormatUSD(p.MinDisplayPrice()),
		})
	}
	return out
}

type shopState struct {
	Products      []productView `json:"products"`
	HasMore       bool          `json:"hasMore"`
	SearchTerm    string        `json:"searchTerm"`
	Sort          string        `json:"sort"`
	MobileSort    string        `json:"mobileSort"`
	CategoryID    string        `json:"categoryId"`
	SubcategoryID string        `json:"subcategoryId"`
	Tipos         []string      `json:"tipos"`
}

func (h *ShopHandler) viewFor(w http.ResponseWriter, r *http.Request) *services.CatalogView {
	viewID := h.session.GetViewID(w, r)

	h.mu.Lock()
	view, ok := h.views[viewID]
	if !ok {
		view = services.NewCatalogView(h.source, r.URL.Query().Get("lang"))
		h.views[viewID] = view
	}
	h.mu.Unlock()

	if !ok {
		if categories, err := h.categories.GetAll(r.Context()); err != nil {
			log.Printf("ShopHandler: failed to load categories: %v", err)
		} else {
			view.SetCategories(categories)
		}
		view.Reload(r.Context())
	}
	return view
}

func (h *ShopHandler) state(view *services.CatalogView, mobile bool) shopState {
	products := view.Products()
	if mobile {
		products = view.MobileProducts()
	}
	filters := view.Filters()
	return shopState{
		Products:      toProductViews(products),
		HasMore:       view.HasMore(),
		SearchTerm:    view.SearchTerm(),
		Sort:          string(view.SortOptionValue()),
		MobileSort:    view.MobileSortValue(),
		CategoryID:    filters.CategoryID,
		SubcategoryID: filters.SubcategoryID,
		Tipos:         view.AvailableTypes(),
	}
}

// GetShop renders the current listing state for this visitor.
func (h *ShopHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	view := h.viewFor(w, r)
	mobile := r.URL.Query().Get("presentation") == "mobile"
	h.rnd.JSON(w, http.StatusOK, h.state(view, mobile))
}

// LoadMore appends the next page to the visitor's listing.
func (h *ShopHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	view := h.viewFor(w, r)
	view.LoadMore(r.Context())
	h.rnd.JSON(w, http.StatusOK, h.state(view, false))
}

type shopQueryPayload struct {
	Category    *string `json:"category"`
	Subcategory *string `json:"subcategory"`
	Tipo        *string `json:"tipo"`
	Sort        *string `json:"sort"`
	MobileSort  *string `json:"mobileSort"`
	Search      *string `json:"search"`
	Lang        *string `json:"lang"`
}

// UpdateQuery applies the provided filter and sort fields; absent fields keep
// their current value.
func (h *ShopHandler) UpdateQuery(w http.ResponseWriter, r *http.Request) {
	var payload shopQueryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Invalid request body"))
		return
	}
	if payload.Sort != nil && !services.ValidSortOption(*payload.Sort) {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Unknown sort option"))
		return
	}

	view := h.viewFor(w, r)
	ctx := r.Context()

	if payload.Lang != nil {
		view.SetLanguage(*payload.Lang)
	}
	if payload.Category != nil {
		view.SetCategory(ctx, *payload.Category)
	}
	if payload.Subcategory != nil {
		view.SetSubcategory(ctx, *payload.Subcategory)
	}
	if payload.Tipo != nil {
		view.SetProductType(*payload.Tipo)
	}
	if payload.Sort != nil {
		view.SetSort(ctx, services.SortOption(*payload.Sort))
	}
	if payload.MobileSort != nil {
		view.SetMobileSort(*payload.MobileSort)
	}
	if payload.Search != nil {
		view.SetSearchTerm(ctx, *payload.Search)
	}

	h.rnd.JSON(w, http.StatusOK, h.state(view, false))
}

// GetCategories lists the taxonomy for the storefront filters.
func (h *ShopHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.GetAll(r.Context())
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to load categories", err))
		return
	}
	h.rnd.JSON(w, http.StatusOK, categories)
}

// GetProductBySlug serves the product detail page lookup.
func (h *ShopHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	product, err := h.products.GetBySlug(r.Context(), slug)
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to load product", err))
		return
	}
	if product == nil || !product.Active {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.NotFound, "Product not found"))
		return
	}
	h.rnd.JSON(w, http.StatusOK, productView{
		Product:        *product,
		PriceFormatted: format.FormatUSD(product.MinDisplayPrice()),
	})
}
