package http

import (
	"context"
	"net/http"
	"strings"

	"equipbook-backend/internal/domain"
	"equipbook-backend/internal/security"
)

type contextKey string

const requesterKey contextKey = "requester"

// AuthMiddleware validates the Bearer token and stores the requester
// identity in the request context. Token issuance belongs to the external
// auth service; this layer only verifies.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			ctx := context.WithValue(r.Context(), requesterKey, claims.Requester())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requesterFrom returns the authenticated identity stored by AuthMiddleware.
func requesterFrom(r *http.Request) (domain.Requester, bool) {
	requester, ok := r.Context().Value(requesterKey).(domain.Requester)
	return requester, ok
}
