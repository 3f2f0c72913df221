package middlewares

import (
	"context"
	"net/http"

	"github.com/devrodri-com/mutter-games-dev/app/services"
	"github.com/devrodri-com/mutter-games-dev/app/utils/httperr"
	"github.com/devrodri-com/mutter-games-dev/app/utils/renderer"
	"github.com/unrolled/render"
)

// AdminAuthMiddleware gates the back-office routes: a missing or invalid
// credential is 401, a valid credential without the admin claim is 403.
func AdminAuthMiddleware(auth *services.AuthService, rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				renderer.JSONError(rnd, w, httperr.New(httperr.Unauthenticated, "Missing authorization token"))
				return
			}
			id, err := auth.VerifyToken(raw)
			if err != nil {
				renderer.JSONError(rnd, w, httperr.New(httperr.Unauthenticated, "Invalid or expired token"))
				return
			}
			if !id.Admin && !id.Superadmin {
				renderer.JSONError(rnd, w, httperr.New(httperr.Forbidden, "Admin privileges required"))
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSuperadmin tightens an already admin-gated route to superadmins.
func RequireSuperadmin(rnd *render.Render, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		if id == nil || !id.Superadmin {
			renderer.JSONError(rnd, w, httperr.New(httperr.Forbidden, "Superadmin privileges required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
