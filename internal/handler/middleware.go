package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/shoplane-io/shoplane-api/internal/model"
	"github.com/shoplane-io/shoplane-api/shared/auth"
)

type contextKey struct{}

var userClaimsKey = contextKey{}

// ClaimsFromContext returns the bearer token claims set by Authenticate.
func ClaimsFromContext(ctx context.Context) (*auth.AccessTokenClaims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(*auth.AccessTokenClaims)
	return claims, ok
}

// Authenticate validates the Authorization bearer token and stores its
// claims on the request context.
func Authenticate(jwtAuth auth.JWTAuthenticator, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondMessage(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				respondMessage(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims := &auth.AccessTokenClaims{}
			if _, err := jwtAuth.ValidateTokenWithClaims(parts[1], secret, claims); err != nil {
				respondMessage(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// It must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Role != model.RoleAdmin {
			respondMessage(w, http.StatusForbidden, "admin role required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
