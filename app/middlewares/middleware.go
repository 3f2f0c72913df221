package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/devrodri-com/mutter-games-dev/app/services"
	"github.com/devrodri-com/mutter-games-dev/app/utils/httperr"
	"github.com/devrodri-com/mutter-games-dev/app/utils/renderer"
	"github.com/unrolled/render"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFromContext returns the verified identity a middleware stored, or
// nil when the request went through no auth middleware.
func IdentityFromContext(ctx context.Context) *services.Identity {
	id, _ := ctx.Value(identityKey).(*services.Identity)
	return id
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// AuthenticatedMiddleware admits any verified bearer credential, anonymous
// ones included, and stores the identity in the request context.
func AuthenticatedMiddleware(auth *services.AuthService, rnd *render.Render) func(http.Handler) http.Handler {
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
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
