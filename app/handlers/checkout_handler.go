package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/devrodri-com/mutter-games-dev/app/middlewares"
	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"github.com/devrodri-com/mutter-games-dev/app/services"
	"github.com/devrodri-com/mutter-games-dev/app/utils/httperr"
	"github.com/devrodri-com/mutter-games-dev/app/utils/renderer"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

// CheckoutHandler covers the payment preference and order submission
// endpoints.
type CheckoutHandler struct {
	rnd      *render.Render
	payments *services.PaymentService
	checkout *services.CheckoutService
	clients  repositories.ClientRepositoryImpl
}

func NewCheckoutHandler(
	rnd *render.Render,
	payments *services.PaymentService,
	checkout *services.CheckoutService,
	clients repositories.ClientRepositoryImpl,
) *CheckoutHandler {
	return &CheckoutHandler{rnd: rnd, payments: payments, checkout: checkout, clients: clients}
}

type preferenceItemPayload struct {
	Title     models.LocalizedText `json:"title"`
	UnitPrice *float64             `json:"unit_price"`
	PriceUSD  *float64             `json:"priceUSD"`
	Quantity  int                  `json:"quantity"`
}

func (p preferenceItemPayload) price() decimal.Decimal {
	if p.UnitPrice != nil {
		return decimal.NewFromFloat(*p.UnitPrice)
	}
	if p.PriceUSD != nil {
		return decimal.NewFromFloat(*p.PriceUSD)
	}
	return decimal.Zero
}

type preferencePayload struct {
	Items    []preferenceItemPayload `json:"items"`
	Shipping models.ShippingInfo     `json:"shipping"`
}

// CreatePreference builds a payment preference and returns the gateway
// redirect URL. It is public: the buyer has no account.
func (h *CheckoutHandler) CreatePreference(w http.ResponseWriter, r *http.Request) {
	var payload preferencePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Invalid request body"))
		return
	}

	items := make([]services.CheckoutItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, services.CheckoutItem{
			Title:    it.Title,
			PriceUSD: it.price(),
			Quantity: it.Quantity,
		})
	}

	initPoint, err := h.payments.CreatePreference(r.Context(), items, payload.Shipping)
	if err != nil {
		if errors.Is(err, services.ErrNoValidItems) {
			renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "No valid items found"))
			return
		}
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Upstream, "Failed to create payment preference", err))
		return
	}
	h.rnd.JSON(w, http.StatusOK, map[string]string{"init_point": initPoint})
}

type orderPayload struct {
	UID             string              `json:"uid"`
	Items           []models.LineItem   `json:"items"`
	Shipping        models.ShippingInfo `json:"shipping"`
	Client          models.ClientInfo   `json:"client"`
	PaymentIntentID string              `json:"paymentIntentId"`
}

// CreateOrder persists the order snapshot. The route sits behind the
// authenticated middleware and the payload uid must match the bearer
// identity.
func (h *CheckoutHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	id := middlewares.IdentityFromContext(r.Context())
	if id == nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.Unauthenticated, "Missing authorization token"))
		return
	}

	var payload orderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Invalid request body"))
		return
	}
	if payload.UID != id.UID {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.Forbidden, "Order uid does not match the authenticated identity"))
		return
	}

	order := &models.Order{
		UID:             payload.UID,
		Items:           payload.Items,
		Shipping:        payload.Shipping,
		Client:          payload.Client,
		PaymentIntentID: payload.PaymentIntentID,
	}
	created, err := h.checkout.CreateOrder(r.Context(), order)
	if err != nil {
		if errors.Is(err, services.ErrEmptyOrder) || errors.Is(err, services.ErrInvalidTotal) {
			renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.InvalidInput, "Invalid order", err))
			return
		}
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to create order", err))
		return
	}

	h.registerClient(r, payload.Client)
	h.rnd.JSON(w, http.StatusCreated, created)
}

// registerClient records the buyer in the clients book, best-effort.
func (h *CheckoutHandler) registerClient(r *http.Request, info models.ClientInfo) {
	if h.clients == nil || info.Email == "" {
		return
	}
	client := &models.Client{Nombre: info.Nombre, Email: info.Email, Telefono: info.Telefono}
	if err := h.clients.Create(r.Context(), client); err != nil {
		log.Printf("CheckoutHandler: failed to register client %s: %v", info.Email, err)
	}
}

// GetOrders lists the authenticated identity's order history.
func (h *CheckoutHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	id := middlewares.IdentityFromContext(r.Context())
	if id == nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.Unauthenticated, "Missing authorization token"))
		return
	}
	orders, err := h.checkout.OrdersForUID(r.Context(), id.UID)
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to load orders", err))
		return
	}
	h.rnd.JSON(w, http.StatusOK, orders)
}
