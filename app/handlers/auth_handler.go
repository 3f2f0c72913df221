package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/devrodri-com/mutter-games-dev/app/services"
	"github.com/devrodri-com/mutter-games-dev/app/utils/httperr"
	"github.com/devrodri-com/mutter-games-dev/app/utils/renderer"
	"github.com/devrodri-com/mutter-games-dev/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

// AuthHandler owns the identity lifecycle endpoints. Every identity change it
// produces is published on the identity stream so the cart reconciliation
// observes it.
type AuthHandler struct {
	rnd      *render.Render
	auth     *services.AuthService
	stream   *services.IdentityStream
	session  sessions.SessionStore
	validate *validator.Validate
}

func NewAuthHandler(rnd *render.Render, auth *services.AuthService, stream *services.IdentityStream, session sessions.SessionStore) *AuthHandler {
	return &AuthHandler{
		rnd:      rnd,
		auth:     auth,
		stream:   stream,
		session:  session,
		validate: validator.New(),
	}
}

type tokenResponse struct {
	Token    string            `json:"token"`
	Identity services.Identity `json:"identity"`
}

// Anonymous provisions an anonymous identity for the visitor session.
// Concurrent requests from the same session share one in-flight attempt.
func (h *AuthHandler) Anonymous(w http.ResponseWriter, r *http.Request) {
	sessionKey := h.session.GetViewID(w, r)
	id, token, err := h.auth.ProvisionAnonymous(r.Context(), sessionKey)
	if err != nil {
		if errors.Is(err, services.ErrProvisionTimeout) {
			renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Upstream, "Anonymous sign-in timed out", err))
			return
		}
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to provision identity", err))
		return
	}

	h.stream.Publish(id.UID)
	h.rnd.JSON(w, http.StatusOK, tokenResponse{Token: token, Identity: id})
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates an admin user and returns a role-claim token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Invalid request body"))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Email and password are required"))
		return
	}

	token, user, err := h.auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			renderer.JSONError(h.rnd, w, httperr.New(httperr.Unauthenticated, "Invalid email or password"))
			return
		}
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Login failed", err))
		return
	}

	h.stream.Publish(user.Email)
	h.rnd.JSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

type refreshPayload struct {
	Token string `json:"token"`
}

// Refresh reissues a token, folding in any role changes made since issuance.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var payload refreshPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Token == "" {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "token is required"))
		return
	}

	token, id, err := h.auth.Refresh(r.Context(), payload.Token)
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.Unauthenticated, "Invalid or expired token"))
		return
	}
	h.rnd.JSON(w, http.StatusOK, tokenResponse{Token: token, Identity: *id})
}

// Logout drops the browser session and publishes the identity reset.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.ClearSession(w, r); err != nil {
		log.Printf("AuthHandler: failed to clear session: %v", err)
	}
	h.stream.Publish("")
	h.rnd.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
