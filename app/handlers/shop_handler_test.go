package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"github.com/devrodri-com/mutter-games-dev/app/utils/renderer"
	"github.com/devrodri-com/mutter-games-dev/app/utils/sessions"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"github.com/shopspring/decimal"
)

type fakeShopSource struct {
	products []models.Product
}

func (f *fakeShopSource) FetchPage(ctx context.Context, filters repositories.CatalogFilters, cursor string, limit int) (*repositories.ProductPage, error) {
	sorted := append([]models.Product(nil), f.products...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var out []models.Product
	for _, p := range sorted {
		if !p.Active {
			continue
		}
		if cursor != "" && p.ID <= cursor {
			continue
		}
		out = append(out, p)
		if len(out) == limit+1 {
			break
		}
	}
	page := &repositories.ProductPage{HasMore: len(out) > limit}
	if page.HasMore {
		out = out[:limit]
	}
	page.Products = out
	if len(out) > 0 {
		page.Cursor = out[len(out)-1].ID
	}
	return page, nil
}

func (f *fakeShopSource) FetchAllActive(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

type shopProductRepo struct {
	stubProducts
	bySlug map[string]*models.Product
}

func (s *shopProductRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.bySlug[slug], nil
}

type shopFixture struct {
	router  *mux.Router
	cookies []*http.Cookie
}

func newShopFixture(products []models.Product) *shopFixture {
	rnd := renderer.New()
	store := sessions.NewCookieSessionStore(securecookie.GenerateRandomKey(32))

	bySlug := make(map[string]*models.Product)
	for i := range products {
		bySlug[products[i].Slug] = &products[i]
	}

	h := NewShopHandler(rnd, &fakeShopSource{products: products}, &shopProductRepo{bySlug: bySlug}, &memCategoryRepoHandlers{}, store)

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/shop", h.GetShop).Methods(http.MethodGet)
	api.HandleFunc("/shop/load-more", h.LoadMore).Methods(http.MethodPost)
	api.HandleFunc("/shop/query", h.UpdateQuery).Methods(http.MethodPut)
	api.HandleFunc("/products/{slug}", h.GetProductBySlug).Methods(http.MethodGet)

	return &shopFixture{router: router}
}

type memCategoryRepoHandlers struct{}

func (memCategoryRepoHandlers) GetAll(ctx context.Context) ([]models.Category, error) {
	return nil, nil
}
func (memCategoryRepoHandlers) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return nil, nil
}
func (memCategoryRepoHandlers) Create(ctx context.Context, category *models.Category) error {
	return nil
}
func (memCategoryRepoHandlers) Update(ctx context.Context, category *models.Category) error {
	return nil
}
func (memCategoryRepoHandlers) Delete(ctx context.Context, id string) error { return nil }

func (f *shopFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for _, c := range f.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	latest := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		latest[c.Name] = c
	}
	if len(latest) > 0 {
		f.cookies = f.cookies[:0]
		for _, c := range latest {
			f.cookies = append(f.cookies, c)
		}
	}
	return rec
}

func decodeShop(t *testing.T, rec *httptest.ResponseRecorder) shopState {
	t.Helper()
	var state shopState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("bad shop response: %v: %s", err, rec.Body.String())
	}
	return state
}

func shopCatalog(n int) []models.Product {
	products := make([]models.Product, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, models.Product{
			ID:       fmt.Sprintf("p%03d", i),
			Slug:     fmt.Sprintf("producto-%03d", i),
			Title:    models.LocalizedText{Es: fmt.Sprintf("Producto %03d", i)},
			Active:   true,
			PriceUSD: decimal.NewFromInt(int64(i + 1)),
		})
	}
	return products
}

func TestShopFirstPageAndLoadMore(t *testing.T) {
	f := newShopFixture(shopCatalog(30))

	state := decodeShop(t, f.do(t, http.MethodGet, "/api/shop", ""))
	if len(state.Products) != 24 || !state.HasMore {
		t.Fatalf("expected a full first page with more available, got %d hasMore=%v", len(state.Products), state.HasMore)
	}

	state = decodeShop(t, f.do(t, http.MethodPost, "/api/shop/load-more", ""))
	if len(state.Products) != 30 || state.HasMore {
		t.Fatalf("expected full catalog after load-more, got %d hasMore=%v", len(state.Products), state.HasMore)
	}

	seen := make(map[string]bool)
	for _, p := range state.Products {
		if seen[p.ID] {
			t.Fatalf("duplicate product %s", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestShopSearchQuery(t *testing.T) {
	f := newShopFixture(shopCatalog(30))
	f.do(t, http.MethodGet, "/api/shop", "")

	state := decodeShop(t, f.do(t, http.MethodPut, "/api/shop/query", `{"search": "producto 00"}`))
	if len(state.Products) != 10 {
		t.Fatalf("expected 10 matches for 'producto 00', got %d", len(state.Products))
	}

	state = decodeShop(t, f.do(t, http.MethodPut, "/api/shop/query", `{"search": ""}`))
	if len(state.Products) != 24 {
		t.Fatalf("expected pagination restarted after leaving search, got %d", len(state.Products))
	}
}

func TestShopQueryRejectsUnknownSort(t *testing.T) {
	f := newShopFixture(shopCatalog(5))
	if rec := f.do(t, http.MethodPut, "/api/shop/query", `{"sort": "cheapestest"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown sort, got %d", rec.Code)
	}
}

func TestShopSortQuery(t *testing.T) {
	f := newShopFixture(shopCatalog(5))
	f.do(t, http.MethodGet, "/api/shop", "")

	state := decodeShop(t, f.do(t, http.MethodPut, "/api/shop/query", `{"sort": "priceDesc"}`))
	if state.Products[0].ID != "p004" {
		t.Fatalf("expected most expensive first, got %s", state.Products[0].ID)
	}
	if state.Products[0].PriceFormatted == "" {
		t.Fatal("expected a formatted price on every product")
	}
}

func TestProductDetailBySlug(t *testing.T) {
	f := newShopFixture(shopCatalog(3))

	rec := f.do(t, http.MethodGet, "/api/products/producto-001", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if rec := f.do(t, http.MethodGet, "/api/products/no-existe", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown slug, got %d", rec.Code)
	}
}

func TestProductDetailHidesInactive(t *testing.T) {
	catalog := shopCatalog(2)
	catalog[1].Active = false
	f := newShopFixture(catalog)

	if rec := f.do(t, http.MethodGet, "/api/products/producto-001", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("inactive products must 404, got %d", rec.Code)
	}
}
