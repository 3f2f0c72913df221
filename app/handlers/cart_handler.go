package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"github.com/devrodri-com/mutter-games-dev/app/services"
	"github.com/devrodri-com/mutter-games-dev/app/utils/format"
	"github.com/devrodri-com/mutter-games-dev/app/utils/httperr"
	"github.com/devrodri-com/mutter-games-dev/app/utils/renderer"
	"github.com/devrodri-com/mutter-games-dev/app/utils/sessions"
	"github.com/unrolled/render"
)

// CartHandler exposes the cart over HTTP. Each request rebuilds a CartSession
// from the cookie-persisted lines and the remote cart document; identity
// reconciliation runs when the bearer uid differs from the last-synced uid in
// the session.
type CartHandler struct {
	rnd      *render.Render
	session  sessions.SessionStore
	carts    repositories.CartRepositoryImpl
	products repositories.ProductRepositoryImpl
	auth     *services.AuthService
}

func NewCartHandler(
	rnd *render.Render,
	session sessions.SessionStore,
	carts repositories.CartRepositoryImpl,
	products repositories.ProductRepositoryImpl,
	auth *services.AuthService,
) *CartHandler {
	return &CartHandler{rnd: rnd, session: session, carts: carts, products: products, auth: auth}
}

// cartSession assembles the per-request session. A valid bearer token that
// names a uid the cart has not synced under yet triggers remote
// reconciliation; the same uid as last time is adopted without one.
func (h *CartHandler) cartSession(w http.ResponseWriter, r *http.Request) (*services.CartSession, services.SyncResult) {
	cs := services.NewCartSession(h.session.CartStore(w, r), h.carts, h.products)
	cs.SetShipping(h.session.GetShipping(r))

	sync := services.SyncOk()
	uid := h.bearerUID(r)
	if uid == "" {
		return cs, services.SyncDegraded("no identity")
	}

	if uid != h.session.GetUID(r) {
		sync = cs.HandleIdentity(r.Context(), uid)
		if !sync.Degraded {
			if err := h.session.SetUID(w, r, uid); err != nil {
				log.Printf("CartHandler: failed to store synced uid: %v", err)
			}
		}
	} else {
		cs.AdoptIdentity(uid)
	}
	return cs, sync
}

func (h *CartHandler) bearerUID(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	id, err := h.auth.VerifyToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
	if err != nil {
		return ""
	}
	return id.UID
}

type cartResponse struct {
	Items          []models.LineItem   `json:"items"`
	Total          string              `json:"total"`
	TotalFormatted string              `json:"totalFormatted"`
	Shipping       models.ShippingInfo `json:"shipping"`
	Sync           services.SyncResult `json:"sync"`
}

func (h *CartHandler) respond(w http.ResponseWriter, cs *services.CartSession, sync services.SyncResult) {
	total := cs.Total()
	h.rnd.JSON(w, http.StatusOK, cartResponse{
		Items:          cs.Items(),
		Total:          total.StringFixed(2),
		TotalFormatted: format.FormatUSD(total),
		Shipping:       cs.Shipping(),
		Sync:           sync,
	})
}

// GetCart returns the reconciled cart for this visitor.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cs, sync := h.cartSession(w, r)
	h.respond(w, cs, sync)
}

// AddItem merges a line into the cart and pushes the result to the remote
// document.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var item models.LineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Invalid request body"))
		return
	}

	cs, _ := h.cartSession(w, r)
	if err := cs.AddToCart(item); err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.InvalidInput, "Invalid cart item", err))
		return
	}
	h.respond(w, cs, cs.Flush(r.Context()))
}

type updateItemPayload struct {
	ProductID    string  `json:"productId"`
	VariantLabel string  `json:"variantLabel"`
	Quantity     *int    `json:"quantity"`
	CustomName   *string `json:"customName"`
	CustomNumber *string `json:"customNumber"`
}

// UpdateItem applies a partial line update; a quantity of zero or below
// removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var payload updateItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Invalid request body"))
		return
	}
	if payload.ProductID == "" {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "productId is required"))
		return
	}

	cs, _ := h.cartSession(w, r)
	cs.UpdateItem(payload.ProductID, payload.VariantLabel, services.ItemUpdate{
		Quantity:     payload.Quantity,
		CustomName:   payload.CustomName,
		CustomNumber: payload.CustomNumber,
	})
	h.respond(w, cs, cs.Flush(r.Context()))
}

// RemoveItem drops a line. The remote write happens inside RemoveItem itself
// so a stale remote read cannot bring the line back.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("productId")
	if productID == "" {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "productId is required"))
		return
	}
	variantLabel := r.URL.Query().Get("variantLabel")

	cs, _ := h.cartSession(w, r)
	sync := cs.RemoveItem(r.Context(), productID, variantLabel)
	h.respond(w, cs, sync)
}

// ClearCart empties the cart locally and remotely.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cs, _ := h.cartSession(w, r)
	sync := cs.Clear(r.Context())
	h.respond(w, cs, sync)
}

// SetShipping stores the shipping form for the session and recomputes the
// derived total.
func (h *CartHandler) SetShipping(w http.ResponseWriter, r *http.Request) {
	var info models.ShippingInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Invalid request body"))
		return
	}
	if err := h.session.SetShipping(w, r, info); err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to store shipping info", err))
		return
	}

	cs, sync := h.cartSession(w, r)
	cs.SetShipping(info)
	h.respond(w, cs, sync)
}
