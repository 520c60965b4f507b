package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jmarek09/go-user-auth/internal/httputil"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDContextKey holds the verified user identifier
	UserIDContextKey ContextKey = "user_id"
)

// Middleware handles authentication for protected routes
type Middleware struct {
	tokens TokenService
}

func NewMiddleware(tokens TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// RequireAuth validates the bearer token and stores the subject in the context
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondError(w, "missing authentication", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondError(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondError(w, "token has expired", http.StatusUnauthorized)
				return
			}
			httputil.RespondError(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext retrieves the verified user ID set by RequireAuth
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDContextKey).(string)
	return id, ok
}
