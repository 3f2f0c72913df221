package admin

import (
	"errors"
	"net/http"

	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"github.com/devrodri-com/mutter-games-dev/app/utils/httperr"
	"github.com/devrodri-com/mutter-games-dev/app/utils/renderer"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"gorm.io/gorm"
)

// ClientAdminHandler exposes the clients book collected at checkout.
type ClientAdminHandler struct {
	rnd     *render.Render
	clients repositories.ClientRepositoryImpl
}

func NewClientAdminHandler(rnd *render.Render, clients repositories.ClientRepositoryImpl) *ClientAdminHandler {
	return &ClientAdminHandler{rnd: rnd, clients: clients}
}

func (h *ClientAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.GetAll(r.Context())
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to load clients", err))
		return
	}
	h.rnd.JSON(w, http.StatusOK, clients)
}

func (h *ClientAdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.clients.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderer.JSONError(h.rnd, w, httperr.New(httperr.NotFound, "Client not found"))
			return
		}
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to delete client", err))
		return
	}
	h.rnd.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
