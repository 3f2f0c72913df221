package admin

import (
	"net/http"

	"github.com/devrodri-com/mutter-games-dev/app/services"
	"github.com/unrolled/render"
)

// UploadAdminHandler hands the admin UI a short-lived CDN upload signature.
type UploadAdminHandler struct {
	rnd    *render.Render
	signer *services.UploadSigner
}

func NewUploadAdminHandler(rnd *render.Render, signer *services.UploadSigner) *UploadAdminHandler {
	return &UploadAdminHandler{rnd: rnd, signer: signer}
}

func (h *UploadAdminHandler) Signature(w http.ResponseWriter, r *http.Request) {
	h.rnd.JSON(w, http.StatusOK, h.signer.Sign())
}
