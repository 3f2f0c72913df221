package admin

import (
	"encoding/json"
	"net/http"

	"github.com/devrodri-com/mutter-games-dev/app/middlewares"
	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"github.com/devrodri-com/mutter-games-dev/app/services"
	"github.com/devrodri-com/mutter-games-dev/app/utils/httperr"
	"github.com/devrodri-com/mutter-games-dev/app/utils/renderer"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

// UserAdminHandler manages the back-office accounts. Role changes must land
// in both the admin-user record and the claims mirror; every path here that
// touches Rol also calls the auth service.
type UserAdminHandler struct {
	rnd      *render.Render
	admins   repositories.AdminUserRepositoryImpl
	auth     *services.AuthService
	validate *validator.Validate
}

func NewUserAdminHandler(rnd *render.Render, admins repositories.AdminUserRepositoryImpl, auth *services.AuthService) *UserAdminHandler {
	return &UserAdminHandler{rnd: rnd, admins: admins, auth: auth, validate: validator.New()}
}

func (h *UserAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.admins.GetAll(r.Context())
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to load users", err))
		return
	}
	h.rnd.JSON(w, http.StatusOK, users)
}

func (h *UserAdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.admins.GetByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to load user", err))
		return
	}
	if user == nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.NotFound, "User not found"))
		return
	}
	h.rnd.JSON(w, http.StatusOK, user)
}

type createUserPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Nombre   string `json:"nombre" validate:"required"`
	Rol      string `json:"rol" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// Create provisions a back-office account: the record, its password hash and
// the claims mirror entry. The route is superadmin-gated.
func (h *UserAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createUserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Invalid request body"))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.InvalidInput, "Invalid user payload", err))
		return
	}
	if !models.ValidRole(payload.Rol) {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Unknown role"))
		return
	}

	ctx := r.Context()
	existing, err := h.admins.GetByEmail(ctx, payload.Email)
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to look up user", err))
		return
	}
	if existing != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "A user with that email already exists"))
		return
	}

	hash, err := services.HashPassword(payload.Password)
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to create user", err))
		return
	}
	user := &models.AdminUser{
		Email:        payload.Email,
		Nombre:       payload.Nombre,
		Rol:          payload.Rol,
		Activo:       true,
		PasswordHash: hash,
	}
	if err := h.admins.Create(ctx, user); err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to create user", err))
		return
	}

	admin := payload.Rol == models.RoleAdmin || payload.Rol == models.RoleSuperadmin
	superadmin := payload.Rol == models.RoleSuperadmin
	if err := h.auth.SetCustomClaims(ctx, user.Email, admin, superadmin); err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to set role claims", err))
		return
	}
	h.rnd.JSON(w, http.StatusCreated, user)
}

type updateUserPayload struct {
	Nombre *string `json:"nombre"`
	Activo *bool   `json:"activo"`
	Rol    *string `json:"rol"`
}

// Update edits an account. Nombre and Activo are open to any admin; changing
// Rol is superadmin-only and keeps the claims mirror in sync.
func (h *UserAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload updateUserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Invalid request body"))
		return
	}

	ctx := r.Context()
	user, err := h.admins.GetByEmail(ctx, mux.Vars(r)["email"])
	if err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to load user", err))
		return
	}
	if user == nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.NotFound, "User not found"))
		return
	}

	if payload.Rol != nil {
		id := middlewares.IdentityFromContext(ctx)
		if id == nil || !id.Superadmin {
			renderer.JSONError(h.rnd, w, httperr.New(httperr.Forbidden, "Only a superadmin can change roles"))
			return
		}
		if !models.ValidRole(*payload.Rol) {
			renderer.JSONError(h.rnd, w, httperr.New(httperr.InvalidInput, "Unknown role"))
			return
		}
		user.Rol = *payload.Rol
	}
	if payload.Nombre != nil {
		user.Nombre = *payload.Nombre
	}
	if payload.Activo != nil {
		user.Activo = *payload.Activo
	}

	if err := h.admins.Update(ctx, user); err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to update user", err))
		return
	}

	if payload.Rol != nil {
		admin := user.Rol == models.RoleAdmin || user.Rol == models.RoleSuperadmin
		superadmin := user.Rol == models.RoleSuperadmin
		if err := h.auth.SetCustomClaims(ctx, user.Email, admin, superadmin); err != nil {
			renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to sync role claims", err))
			return
		}
	}
	h.rnd.JSON(w, http.StatusOK, user)
}

// Delete removes the account and revokes its claims. Superadmin-gated.
func (h *UserAdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := mux.Vars(r)["email"]

	if err := h.admins.Delete(ctx, email); err != nil {
		renderer.JSONError(h.rnd, w, httperr.New(httperr.NotFound, "User not found"))
		return
	}
	if err := h.auth.RevokeClaims(ctx, email); err != nil {
		renderer.JSONError(h.rnd, w, httperr.Wrap(httperr.Internal, "Failed to revoke role claims", err))
		return
	}
	h.rnd.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
