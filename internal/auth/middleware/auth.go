// Package middleware provides bearer-token authentication for protected routes
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/auth/service"
	"github.com/Sunaan-Sultan/News-Portal-Mock-Backend/internal/models"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware validates the bearer token and puts the identity claims
// into the request context. A missing token yields 401, a malformed,
// badly-signed or expired token yields 403.
func AuthMiddleware(tokenGenerator *service.TokenGenerator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			// Expected format: "Bearer <token>"
			var token string
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
					token = parts[1]
				}
			}

			// If no token found, return 401
			if token == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"authentication required"}`))
				return
			}

			// Validate token and extract identity claims
			identity, err := tokenGenerator.ValidateToken(token)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"message":"invalid or expired token"}`))
				return
			}

			// Add identity to context
			ctx := context.WithValue(r.Context(), identityKey, *identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the identity claims from context
func GetIdentity(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}
