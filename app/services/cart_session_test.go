package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"github.com/shopspring/decimal"
)

type memLocalStore struct {
	items []models.LineItem
}

func (m *memLocalStore) Load() ([]models.LineItem, error) {
	return m.items, nil
}

func (m *memLocalStore) Save(items []models.LineItem) error {
	m.items = append([]models.LineItem(nil), items...)
	return nil
}

type memRemoteStore struct {
	carts     map[string][]models.LineItem
	failSave  bool
	failLoad  bool
	saveCalls int
}

func newMemRemoteStore() *memRemoteStore {
	return &memRemoteStore{carts: make(map[string][]models.LineItem)}
}

func (m *memRemoteStore) Load(ctx context.Context, uid string) ([]models.LineItem, error) {
	if m.failLoad {
		return nil, errors.New("remote unavailable")
	}
	return m.carts[uid], nil
}

func (m *memRemoteStore) Save(ctx context.Context, uid string, items []models.LineItem) error {
	m.saveCalls++
	if m.failSave {
		return errors.New("remote unavailable")
	}
	m.carts[uid] = append([]models.LineItem(nil), items...)
	return nil
}

type stubProductRepo struct {
	products map[string]*models.Product
}

func (s *stubProductRepo) FetchPage(ctx context.Context, filters repositories.CatalogFilters, cursor string, limit int) (*repositories.ProductPage, error) {
	return &repositories.ProductPage{}, nil
}
func (s *stubProductRepo) FetchAllActive(ctx context.Context) ([]models.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) GetAll(ctx context.Context) ([]models.Product, error) { return nil, nil }
func (s *stubProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return s.products[id], nil
}
func (s *stubProductRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return nil, nil
}
func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) error  { return nil }
func (s *stubProductRepo) Update(ctx context.Context, product *models.Product) error  { return nil }
func (s *stubProductRepo) Delete(ctx context.Context, id string) error                { return nil }
func (s *stubProductRepo) DecrementOptionStock(ctx context.Context, productID, optionValue string, qty int) error {
	return nil
}

func line(productID, variantID, label string, qty int) models.LineItem {
	return models.LineItem{
		ProductID:    productID,
		VariantID:    variantID,
		VariantLabel: label,
		PriceUSD:     decimal.NewFromInt(10),
		Quantity:     qty,
	}
}

func TestAddToCartMergesSameIdentity(t *testing.T) {
	cs := NewCartSession(&memLocalStore{}, newMemRemoteStore(), nil)

	if err := cs.AddToCart(line("p1", "M", "Tamaño", 2)); err != nil {
		t.Fatal(err)
	}
	if err := cs.AddToCart(line("p1", "M", "Tamaño", 3)); err != nil {
		t.Fatal(err)
	}

	items := cs.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 merged line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", items[0].Quantity)
	}
}

func TestAddToCartDistinguishesVariantIdentity(t *testing.T) {
	cs := NewCartSession(&memLocalStore{}, newMemRemoteStore(), nil)

	cs.AddToCart(line("p1", "M", "Tamaño", 1))
	cs.AddToCart(line("p1", "L", "Tamaño", 1))
	cs.AddToCart(line("p1", "M", "Otro", 1))

	if got := len(cs.Items()); got != 3 {
		t.Fatalf("expected 3 distinct lines, got %d", got)
	}
}

func TestAddToCartDefaultsQuantityAndLabel(t *testing.T) {
	cs := NewCartSession(&memLocalStore{}, newMemRemoteStore(), nil)

	cs.AddToCart(models.LineItem{ProductID: "p1", VariantID: "M"})
	items := cs.Items()
	if items[0].Quantity != 1 {
		t.Fatalf("expected quantity floor of 1, got %d", items[0].Quantity)
	}
	if items[0].VariantLabel != "M" {
		t.Fatalf("expected label defaulted to variant id, got %q", items[0].VariantLabel)
	}
}

func TestUpdateItemZeroQuantityRemovesLine(t *testing.T) {
	cs := NewCartSession(&memLocalStore{}, newMemRemoteStore(), nil)
	cs.AddToCart(line("p1", "M", "Tamaño", 2))
	cs.AddToCart(line("p2", "L", "Tamaño", 1))

	zero := 0
	cs.UpdateItem("p1", "Tamaño", ItemUpdate{Quantity: &zero})

	items := cs.Items()
	if len(items) != 1 || items[0].ProductID != "p2" {
		t.Fatalf("expected only p2 to remain, got %+v", items)
	}
}

func TestUpdateItemPartialFields(t *testing.T) {
	cs := NewCartSession(&memLocalStore{}, newMemRemoteStore(), nil)
	cs.AddToCart(line("p1", "M", "Tamaño", 2))

	name := "RODRIGO"
	cs.UpdateItem("p1", "Tamaño", ItemUpdate{CustomName: &name})

	items := cs.Items()
	if items[0].CustomName != "RODRIGO" {
		t.Fatalf("expected custom name applied, got %q", items[0].CustomName)
	}
	if items[0].Quantity != 2 {
		t.Fatalf("quantity should be untouched, got %d", items[0].Quantity)
	}
}

func TestHandleIdentityEmptyRemoteKeepsLocal(t *testing.T) {
	local := &memLocalStore{items: []models.LineItem{line("p1", "M", "Tamaño", 2)}}
	remote := newMemRemoteStore()
	cs := NewCartSession(local, remote, nil)

	res := cs.HandleIdentity(context.Background(), "user-1")
	if res.Degraded {
		t.Fatalf("expected ok sync, got %+v", res)
	}
	if got := len(cs.Items()); got != 1 {
		t.Fatalf("local cart must survive an empty remote, got %d items", got)
	}
}

func TestHandleIdentityAdoptsRemote(t *testing.T) {
	remote := newMemRemoteStore()
	remote.carts["user-1"] = []models.LineItem{line("p9", "S", "Tamaño", 4)}
	cs := NewCartSession(&memLocalStore{}, remote, nil)

	cs.HandleIdentity(context.Background(), "user-1")

	items := cs.Items()
	if len(items) != 1 || items[0].ProductID != "p9" {
		t.Fatalf("expected remote cart adopted, got %+v", items)
	}
}

func TestHandleIdentityEnrichesFromProducts(t *testing.T) {
	remote := newMemRemoteStore()
	remote.carts["user-1"] = []models.LineItem{line("p1", "M", "Tamaño", 1), line("gone", "M", "Tamaño", 1)}
	repo := &stubProductRepo{products: map[string]*models.Product{
		"p1": {
			ID:     "p1",
			Title:  models.LocalizedText{Es: "Remera Clásica"},
			Images: []string{"/img/p1.jpg"},
		},
	}}
	cs := NewCartSession(&memLocalStore{}, remote, repo)

	cs.HandleIdentity(context.Background(), "user-1")

	items := cs.Items()
	if len(items) != 2 {
		t.Fatalf("missing products must not drop lines, got %d", len(items))
	}
	if items[0].Title.Es != "Remera Clásica" || items[0].Image != "/img/p1.jpg" {
		t.Fatalf("expected enriched line, got %+v", items[0])
	}
}

func TestHandleIdentityRemoteFailureIsDegraded(t *testing.T) {
	local := &memLocalStore{items: []models.LineItem{line("p1", "M", "Tamaño", 2)}}
	remote := newMemRemoteStore()
	remote.failLoad = true
	cs := NewCartSession(local, remote, nil)

	res := cs.HandleIdentity(context.Background(), "user-1")
	if !res.Degraded {
		t.Fatal("expected degraded sync on remote load failure")
	}
	if got := len(cs.Items()); got != 1 {
		t.Fatalf("local cart must survive the failure, got %d items", got)
	}
}

func TestRemoveItemWritesRemoteImmediately(t *testing.T) {
	remote := newMemRemoteStore()
	remote.carts["user-1"] = []models.LineItem{line("p1", "M", "Tamaño", 1), line("p2", "L", "Tamaño", 1)}
	cs := NewCartSession(&memLocalStore{}, remote, nil)
	cs.HandleIdentity(context.Background(), "user-1")
	saves := remote.saveCalls

	res := cs.RemoveItem(context.Background(), "p1", "Tamaño")
	if res.Degraded {
		t.Fatalf("expected ok sync, got %+v", res)
	}
	if remote.saveCalls != saves+1 {
		t.Fatal("remove must write the remote document immediately")
	}
	if got := remote.carts["user-1"]; len(got) != 1 || got[0].ProductID != "p2" {
		t.Fatalf("removed line resurrected remotely: %+v", got)
	}
}

func TestClearEmptiesLocalAndRemote(t *testing.T) {
	remote := newMemRemoteStore()
	remote.carts["user-1"] = []models.LineItem{line("p1", "M", "Tamaño", 1)}
	local := &memLocalStore{}
	cs := NewCartSession(local, remote, nil)
	cs.HandleIdentity(context.Background(), "user-1")

	if res := cs.Clear(context.Background()); res.Degraded {
		t.Fatalf("expected ok sync, got %+v", res)
	}
	if len(cs.Items()) != 0 || len(remote.carts["user-1"]) != 0 || len(local.items) != 0 {
		t.Fatal("clear must empty every store")
	}
}

func TestFlushWithoutIdentityIsDegraded(t *testing.T) {
	cs := NewCartSession(&memLocalStore{}, newMemRemoteStore(), nil)
	cs.AddToCart(line("p1", "M", "Tamaño", 1))

	if res := cs.Flush(context.Background()); !res.Degraded {
		t.Fatal("expected degraded sync without an identity")
	}
}

func TestRunConsumesIdentityStream(t *testing.T) {
	remote := newMemRemoteStore()
	remote.carts["user-1"] = []models.LineItem{line("p3", "M", "Tamaño", 1)}
	cs := NewCartSession(&memLocalStore{}, remote, nil)

	stream := NewIdentityStream()
	events, cancel := stream.Subscribe()
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cs.Run(ctx, events)
		close(done)
	}()

	stream.Publish("user-1")

	// The subscriber is asynchronous; wait for the adoption to land.
	deadline := time.Now().Add(2 * time.Second)
	for cs.UID() != "user-1" {
		if time.Now().After(deadline) {
			stop()
			t.Fatal("identity event was never consumed")
		}
		time.Sleep(time.Millisecond)
	}

	stop()
	<-done

	items := cs.Items()
	if len(items) != 1 || items[0].ProductID != "p3" {
		t.Fatalf("expected remote cart adopted via stream, got %+v", items)
	}
}

func TestTotalAddsHighCostSurcharge(t *testing.T) {
	cs := NewCartSession(&memLocalStore{}, newMemRemoteStore(), nil)
	cs.AddToCart(line("p1", "M", "Tamaño", 2))

	base := cs.Total()
	cs.SetShipping(models.ShippingInfo{Departamento: "Montevideo"})
	withSurcharge := cs.Total()

	if !withSurcharge.Sub(base).Equal(decimal.NewFromInt(169)) {
		t.Fatalf("expected flat 169 surcharge, got %s vs %s", withSurcharge, base)
	}
}
