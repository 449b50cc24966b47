/**
 * @description
 * Request authentication middleware. The caller identity is resolved from
 * the bearer token once, here, and threaded through the request context;
 * handlers never re-derive it from request bodies.
 */
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/subtrackr/subscription-api/internal/app"
)

// authContextKey is a custom type for the context key to avoid collisions.
type authContextKey string

const userIDKey authContextKey = "userID"

// AuthMiddleware validates the bearer token and stores the acting user id in
// the request context. Requests without a valid token are rejected.
func AuthMiddleware(jwtSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized: missing auth credentials", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				http.Error(w, "Unauthorized: invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			userID, err := app.UserIDFromToken(parts[1], jwtSecret)
			if err != nil {
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the acting user id stored by AuthMiddleware.
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
