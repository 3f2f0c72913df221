package services

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"golang.org/x/text/collate"
)

const DefaultPageSize = 24

// ProductSource is what the view fetches from: one page at a time in
// paginated mode, the whole active collection in search mode.
type ProductSource interface {
	FetchPage(ctx context.Context, filters repositories.CatalogFilters, cursor string, limit int) (*repositories.ProductPage, error)
	FetchAllActive(ctx context.Context) ([]models.Product, error)
}

// CatalogView is the stateful listing pipeline for one visitor. It runs in
// exactly one of two modes: paginated (equality filters pushed to the store,
// cursor continuation) or search (full collection in memory, every filter
// applied locally). A mutex guards it because HTTP handlers hit it
// concurrently.
type CatalogView struct {
	mu     sync.Mutex
	source ProductSource
	lang   string
	col    *collate.Collator

	pageSize    int
	filters     repositories.CatalogFilters
	productType string
	sortOption  SortOption
	mobileSort  string
	searchTerm  string

	categories []models.Category

	// Paginated mode state.
	pages   []models.Product
	cursor  string
	hasMore bool
	loading bool

	// Search mode state.
	all []models.Product
}

func NewCatalogView(source ProductSource, lang string) *CatalogView {
	if lang != "en" {
		lang = "es"
	}
	return &CatalogView{
		source:   source,
		lang:     lang,
		col:      collatorFor(lang),
		pageSize: DefaultPageSize,
		hasMore:  true,
	}
}

// SetPageSize is only meant for tests and admin previews.
func (v *CatalogView) SetPageSize(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n > 0 {
		v.pageSize = n
	}
}

func (v *CatalogView) SetLanguage(lang string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if lang != "en" {
		lang = "es"
	}
	if lang != v.lang {
		v.lang = lang
		v.col = collatorFor(lang)
	}
}

// SetCategories hands the view the taxonomy it resolves subcategory owners
// against.
func (v *CatalogView) SetCategories(categories []models.Category) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.categories = categories
}

// SetCategory selects a category. Clearing it clears the subcategory too;
// changing it resets the subcategory to unset. Pagination restarts unless a
// search is active.
func (v *CatalogView) SetCategory(ctx context.Context, categoryID string) {
	v.mu.Lock()
	if categoryID == v.filters.CategoryID {
		v.mu.Unlock()
		return
	}
	v.filters.CategoryID = categoryID
	v.filters.SubcategoryID = ""
	v.mu.Unlock()
	v.reloadIfPaginated(ctx)
}

// SetSubcategory selects a subcategory, which implies selecting its owning
// category. An unknown id clears the selection.
func (v *CatalogView) SetSubcategory(ctx context.Context, subcategoryID string) {
	v.mu.Lock()
	if subcategoryID == "" {
		v.filters.SubcategoryID = ""
		v.mu.Unlock()
		v.reloadIfPaginated(ctx)
		return
	}
	owner := ""
	for _, cat := range v.categories {
		for _, sub := range cat.Subcategories {
			if sub.ID == subcategoryID {
				owner = cat.ID
				break
			}
		}
	}
	if owner == "" {
		v.mu.Unlock()
		return
	}
	v.filters.CategoryID = owner
	v.filters.SubcategoryID = subcategoryID
	v.mu.Unlock()
	v.reloadIfPaginated(ctx)
}

// SetProductType is a client-computed filter; it is never pushed to the
// store and does not reset pagination.
func (v *CatalogView) SetProductType(tipo string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.productType = tipo
}

func (v *CatalogView) SetSort(ctx context.Context, option SortOption) {
	v.mu.Lock()
	if option == v.sortOption {
		v.mu.Unlock()
		return
	}
	v.sortOption = option
	v.mu.Unlock()
	v.reloadIfPaginated(ctx)
}

// SetMobileSort changes the compact presentation's sort only; it is
// decoupled state and purely in-memory.
func (v *CatalogView) SetMobileSort(order string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mobileSort = order
}

// SetSearchTerm drives the mode transition. Going from empty to non-empty
// fetches the entire active collection once; going back to empty discards it
// and restarts pagination.
func (v *CatalogView) SetSearchTerm(ctx context.Context, term string) {
	v.mu.Lock()
	wasEmpty := v.searchTerm == ""
	isEmpty := strings.TrimSpace(term) == ""
	v.searchTerm = term
	v.mu.Unlock()

	if wasEmpty && !isEmpty {
		v.loadAll(ctx)
		return
	}
	if !wasEmpty && isEmpty {
		v.mu.Lock()
		v.all = nil
		v.mu.Unlock()
		v.reloadIfPaginated(ctx)
	}
}

func (v *CatalogView) SearchMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.searchMode()
}

func (v *CatalogView) searchMode() bool {
	return strings.TrimSpace(v.searchTerm) != ""
}

// loadAll fetches the full active collection for search mode. A failure
// yields an empty set rather than surfacing to the UI.
func (v *CatalogView) loadAll(ctx context.Context) {
	all, err := v.source.FetchAllActive(ctx)
	if err != nil {
		log.Printf("CatalogView: failed to load full collection: %v", err)
		all = []models.Product{}
	}
	v.mu.Lock()
	v.all = all
	v.mu.Unlock()
}

// Reload resets pagination and fetches the first page under the current
// filters. Handlers call it once when a view is created.
func (v *CatalogView) Reload(ctx context.Context) {
	v.reloadIfPaginated(ctx)
}

// reloadIfPaginated resets pagination state and loads the first page. While
// a search is active the paginated pipeline stays untouched.
func (v *CatalogView) reloadIfPaginated(ctx context.Context) {
	v.mu.Lock()
	if v.searchMode() {
		v.mu.Unlock()
		return
	}
	v.pages = nil
	v.cursor = ""
	v.hasMore = true
	filters := v.filters
	limit := v.pageSize
	v.loading = true
	v.mu.Unlock()

	page, err := v.source.FetchPage(ctx, filters, "", limit)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		log.Printf("CatalogView: failed to load first page: %v", err)
		v.pages = []models.Product{}
		return
	}
	v.pages = page.Products
	v.cursor = page.Cursor
	v.hasMore = page.HasMore
}

// LoadMore fetches the next page and appends it. It is a no-op when the
// collection is exhausted, a load is already in flight, or no cursor exists
// yet. A failed fetch leaves the accumulated pages unchanged.
func (v *CatalogView) LoadMore(ctx context.Context) {
	v.mu.Lock()
	if !v.hasMore || v.loading || v.cursor == "" || v.searchMode() {
		v.mu.Unlock()
		return
	}
	v.loading = true
	filters := v.filters
	cursor := v.cursor
	limit := v.pageSize
	v.mu.Unlock()

	page, err := v.source.FetchPage(ctx, filters, cursor, limit)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		log.Printf("CatalogView: failed to load more products: %v", err)
		return
	}
	v.pages = append(v.pages, page.Products...)
	v.cursor = page.Cursor
	v.hasMore = page.HasMore
}

// Products returns the ordered, filtered set to render under the desktop
// sort selection.
func (v *CatalogView) Products() []models.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	filtered := v.filtered()
	sortProducts(filtered, v.sortOption, v.lang, v.col)
	return filtered
}

// MobileProducts applies the compact presentation's independent sort over
// the same filtered set.
func (v *CatalogView) MobileProducts() []models.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	filtered := v.filtered()
	sortProducts(filtered, mobileToSortOption(v.mobileSort), v.lang, v.col)
	return filtered
}

// filtered applies the in-memory filters over the mode's source set. In
// paginated mode category/subcategory were already pushed to the store; in
// search mode everything is applied here.
func (v *CatalogView) filtered() []models.Product {
	source := v.pages
	if v.searchMode() {
		source = v.all
	}

	term := foldText(strings.TrimSpace(v.searchTerm))
	tipo := foldText(v.productType)

	out := make([]models.Product, 0, len(source))
	for _, p := range source {
		if v.searchMode() {
			if v.filters.CategoryID != "" && p.Category.ID != v.filters.CategoryID {
				continue
			}
			if v.filters.SubcategoryID != "" && p.Subcategory.ID != v.filters.SubcategoryID {
				continue
			}
		}
		if tipo != "" && tipo != "todos" && foldText(p.Tipo) != tipo {
			continue
		}
		if term != "" && !strings.Contains(foldText(p.Title.In(v.lang)), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// AvailableTypes lists the distinct product-type tags in the current
// mode's source set.
func (v *CatalogView) AvailableTypes() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	source := v.pages
	if v.searchMode() {
		source = v.all
	}
	seen := make(map[string]struct{})
	var types []string
	for _, p := range source {
		if p.Tipo == "" {
			continue
		}
		if _, ok := seen[p.Tipo]; ok {
			continue
		}
		seen[p.Tipo] = struct{}{}
		types = append(types, p.Tipo)
	}
	return types
}

func (v *CatalogView) HasMore() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hasMore
}

func (v *CatalogView) Filters() repositories.CatalogFilters {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters
}

func (v *CatalogView) SearchTerm() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.searchTerm
}

func (v *CatalogView) SortOptionValue() SortOption {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sortOption
}

func (v *CatalogView) MobileSortValue() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mobileSort
}
