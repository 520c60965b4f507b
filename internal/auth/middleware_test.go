package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMiddleware(t *testing.T) (*Middleware, *JWTService) {
	t.Helper()
	tokens, err := NewJWTService(testSecret, time.Hour)
	require.NoError(t, err)
	return NewMiddleware(tokens), tokens
}

func runProtected(m *Middleware, authHeader string) (*httptest.ResponseRecorder, string, bool) {
	var gotID string
	var called bool

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	m.RequireAuth(next).ServeHTTP(w, req)

	return w, gotID, called
}

func TestMiddleware_RequireAuth(t *testing.T) {
	m, tokens := newTestMiddleware(t)

	token, err := tokens.CreateToken("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	w, gotID, called := runProtected(m, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
	assert.Equal(t, "507f1f77bcf86cd799439011", gotID)
}

func TestMiddleware_RequireAuth_Rejections(t *testing.T) {
	m, _ := newTestMiddleware(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"malformed header", "Bearer"},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, called := runProtected(m, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, called)
		})
	}
}

func TestMiddleware_RequireAuth_ExpiredToken(t *testing.T) {
	m, _ := newTestMiddleware(t)

	now := time.Now()
	claims := Claims{
		UserID: "507f1f77bcf86cd799439011",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w, _, called := runProtected(m, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
	assert.Contains(t, w.Body.String(), "token has expired")
}
