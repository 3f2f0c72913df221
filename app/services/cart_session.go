package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"github.com/devrodri-com/mutter-games-dev/app/utils/calc"
	"github.com/shopspring/decimal"
)

// SyncResult makes the best-effort remote writes explicit: Ok when the
// remote document was written, Degraded when the session fell back to
// local-only operation.
type SyncResult struct {
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
}

func SyncOk() SyncResult {
	return SyncResult{}
}

func SyncDegraded(reason string) SyncResult {
	return SyncResult{Degraded: true, Reason: reason}
}

// LocalCartStore is the reload-surviving persistence (cookie session in
// production, in-memory in tests).
type LocalCartStore interface {
	Load() ([]models.LineItem, error)
	Save(items []models.LineItem) error
}

// RemoteCartStore is the per-identity cart document in the remote store.
type RemoteCartStore interface {
	Load(ctx context.Context, uid string) ([]models.LineItem, error)
	Save(ctx context.Context, uid string, items []models.LineItem) error
}

// ItemUpdate is a partial update for UpdateItem. A quantity at or below zero
// removes the line; quantity is the deletion signal, there is no separate
// delete semantic on this path.
type ItemUpdate struct {
	Quantity     *int
	CustomName   *string
	CustomNumber *string
}

// CartSession keeps one logical cart consistent across local persistence,
// the remote per-identity document, and an identity that can change
// mid-session.
type CartSession struct {
	mu       sync.Mutex
	uid      string
	items    []models.LineItem
	shipping models.ShippingInfo
	local    LocalCartStore
	remote   RemoteCartStore
	products repositories.ProductRepositoryImpl
}

func NewCartSession(local LocalCartStore, remote RemoteCartStore, products repositories.ProductRepositoryImpl) *CartSession {
	s := &CartSession{local: local, remote: remote, products: products}
	if local != nil {
		if items, err := local.Load(); err == nil {
			s.items = items
		}
	}
	return s
}

// Run consumes the identity event stream until the context ends, triggering
// a remote load and merge on every identity change.
func (s *CartSession) Run(ctx context.Context, events <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case uid, ok := <-events:
			if !ok {
				return
			}
			s.HandleIdentity(ctx, uid)
		}
	}
}

// HandleIdentity adopts uid as the cart owner and reconciles remote state
// into the session. An empty remote list never overwrites a non-empty local
// cart: the remote document may simply not have been written yet.
func (s *CartSession) HandleIdentity(ctx context.Context, uid string) SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.uid = uid
	if uid == "" {
		return SyncDegraded("no identity")
	}

	remoteItems, err := s.remote.Load(ctx, uid)
	if err != nil {
		log.Printf("CartSession: failed to load remote cart for %s: %v", uid, err)
		return SyncDegraded(fmt.Sprintf("remote load failed: %v", err))
	}

	if len(remoteItems) == 0 && len(s.items) > 0 {
		return SyncOk()
	}

	enriched := s.enrich(ctx, remoteItems)
	s.items = enriched
	s.saveLocal()
	return SyncOk()
}

// enrich re-resolves presentational fields against the live products,
// tolerating products that no longer exist.
func (s *CartSession) enrich(ctx context.Context, items []models.LineItem) []models.LineItem {
	if s.products == nil {
		return items
	}
	out := make([]models.LineItem, 0, len(items))
	for _, it := range items {
		product, err := s.products.GetByID(ctx, it.ProductID)
		if err == nil && product != nil {
			it.Title = product.Title
			if img := product.FirstImage(); img != "" {
				it.Image = img
			}
		}
		out = append(out, it)
	}
	return out
}

// AdoptIdentity sets the cart owner without touching remote state. It is for
// identities already reconciled earlier in the session; new identities go
// through HandleIdentity.
func (s *CartSession) AdoptIdentity(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uid = uid
}

// AddToCart merges the item into the cart: same identity key sums
// quantities in place, anything else appends. Local persistence updates on
// every mutation; the remote write rides on the next Flush.
func (s *CartSession) AddToCart(item models.LineItem) error {
	if item.ProductID == "" {
		return fmt.Errorf("cart item requires a product id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if item.VariantLabel == "" && item.VariantID != "" {
		item.VariantLabel = item.VariantID
	}

	merged := false
	for i := range s.items {
		if s.items[i].SameAs(item) {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	s.saveLocal()
	return nil
}

// UpdateItem applies a partial update to the lines matching the identity
// pair; lines whose resulting quantity is zero or below are dropped.
func (s *CartSession) UpdateItem(productID, variantLabel string, upd ItemUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.items[:0]
	for _, it := range s.items {
		if it.ProductID == productID && it.VariantLabel == variantLabel {
			if upd.Quantity != nil {
				it.Quantity = *upd.Quantity
			}
			if upd.CustomName != nil {
				it.CustomName = *upd.CustomName
			}
			if upd.CustomNumber != nil {
				it.CustomNumber = *upd.CustomNumber
			}
			if it.Quantity <= 0 {
				continue
			}
		}
		next = append(next, it)
	}
	s.items = next
	s.saveLocal()
}

// RemoveItem drops the matching lines and writes the remote document
// immediately, so a reload cannot resurrect the removed line from a stale
// remote read.
func (s *CartSession) RemoveItem(ctx context.Context, productID, variantLabel string) SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.items[:0]
	for _, it := range s.items {
		if it.ProductID == productID && it.VariantLabel == variantLabel {
			continue
		}
		next = append(next, it)
	}
	s.items = next
	s.saveLocal()
	return s.writeRemote(ctx)
}

// Clear empties both local state and the remote document.
func (s *CartSession) Clear(ctx context.Context) SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.saveLocal()
	return s.writeRemote(ctx)
}

// Flush pushes the current items to the remote document. It is the reactive
// sync point that add/update mutations rely on.
func (s *CartSession) Flush(ctx context.Context) SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeRemote(ctx)
}

func (s *CartSession) writeRemote(ctx context.Context) SyncResult {
	if s.uid == "" {
		return SyncDegraded("no identity")
	}
	if err := s.remote.Save(ctx, s.uid, s.items); err != nil {
		log.Printf("CartSession: failed to write remote cart for %s: %v", s.uid, err)
		return SyncDegraded(fmt.Sprintf("remote write failed: %v", err))
	}
	return SyncOk()
}

func (s *CartSession) saveLocal() {
	if s.local == nil {
		return
	}
	if err := s.local.Save(s.items); err != nil {
		log.Printf("CartSession: failed to persist cart locally: %v", err)
	}
}

func (s *CartSession) SetShipping(info models.ShippingInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shipping = info
}

func (s *CartSession) Shipping() models.ShippingInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipping
}

// Total derives the cart total: price x quantity over all lines, plus the
// flat surcharge when the shipping departamento is the designated
// high-cost region.
func (s *CartSession) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calc.CartTotal(s.items, s.shipping.Departamento)
}

func (s *CartSession) Items() []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CartSession) UID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uid
}
