package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"github.com/devrodri-com/mutter-games-dev/app/utils/httperr"
	"github.com/devrodri-com/mutter-games-dev/app/utils/renderer"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"gorm.io/gorm"
)

// OrderAdminHandler is the back-office order book: listing and the estado
// lifecycle transitions.
type OrderAdminHandler struct {
	rnd    *render.Render
	orders repositories.OrderRepositoryImpl
}

func NewOrderAdminHandler(rnd *render.Render, orders repositories.OrderRepositoryImpl) *OrderAdminHandler {
	return &OrderAdminHandler{rnd: rnd, orders: orders}
}

func (h *OrderAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetAll(r.Context())
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to load orders", err))
		return
	}
	h.rnd.JSON(w, http.StatusOK, orders)
}

func (h *OrderAdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to load order", err))
		return
	}
	if order == nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.NotFound, "Order not found"))
		return
	}
	h.rnd.JSON(w, http.StatusOK, order)
}

type estadoPayload struct {
	Estado string `json:"estado"`
}

// UpdateEstado moves an order through its lifecycle. Only the known estados
// are accepted.
func (h *OrderAdminHandler) UpdateEstado(w http.ResponseWriter, r *http.Request) {
	var payload estadoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Invalid request body"))
		return
	}
	if !models.ValidOrderEstado(payload.Estado) {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Unknown estado"))
		return
	}

	if err := h.orders.UpdateEstado(r.Context(), mux.Vars(r)["id"], payload.Estado); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderer.JSONError(h.rnd, w, httperr.New(httperr.NotFound, "Order not found"))
			return
		}
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to update order", err))
		return
	}
	h.rnd.JSON(w, http.StatusOK, map[string]string{"estado": payload.Estado})
}
