package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*Handler, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	return NewHandler(newTestService(t, repo)), repo
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestHandler_Signup(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := postJSON(t, handler.Signup, "/api/users/signup", SignupRequest{
		Name:     "Ann",
		Email:    "ann@x.com",
		Password: "pw123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	body := decodeBody(t, w)
	assert.Equal(t, "User created successfully", body["message"])
	assert.NotEmpty(t, body["token"])

	userBody, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ann", userBody["name"])
	assert.Equal(t, "ann@x.com", userBody["email"])
	assert.NotEmpty(t, userBody["id"])

	// The plaintext password and the hash are never echoed back
	raw := w.Body.String()
	assert.NotContains(t, raw, "pw123")
	assert.NotContains(t, raw, "$2a$")
}

func TestHandler_Signup_DuplicateEmail(t *testing.T) {
	handler, repo := newTestHandler(t)

	first := postJSON(t, handler.Signup, "/api/users/signup", SignupRequest{
		Name: "Ann", Email: "ann@x.com", Password: "pw123",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, handler.Signup, "/api/users/signup", SignupRequest{
		Name: "Ann", Email: "ann@x.com", Password: "pw123",
	})
	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.Equal(t, "User already exists", decodeBody(t, second)["message"])
	assert.Len(t, repo.users, 1)
}

// Missing fields produce a typed 400, not a fallthrough server error
func TestHandler_Signup_MissingFields(t *testing.T) {
	handler, _ := newTestHandler(t)

	tests := []struct {
		name string
		req  SignupRequest
		want string
	}{
		{"missing name", SignupRequest{Email: "ann@x.com", Password: "pw123"}, "name is required"},
		{"missing email", SignupRequest{Name: "Ann", Password: "pw123"}, "email is required"},
		{"missing password", SignupRequest{Name: "Ann", Email: "ann@x.com"}, "password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler.Signup, "/api/users/signup", tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decodeBody(t, w)["message"])
		})
	}
}

func TestHandler_Signup_MalformedBody(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/users/signup", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	handler.Signup(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Signup_ServerError(t *testing.T) {
	repo := newMockUserRepo()
	repo.getError = assert.AnError
	handler := NewHandler(newTestService(t, repo))

	w := postJSON(t, handler.Signup, "/api/users/signup", SignupRequest{
		Name: "Ann", Email: "ann@x.com", Password: "pw123",
	})

	// The cause is logged server-side; the caller sees an opaque error
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error", decodeBody(t, w)["message"])
}

func TestHandler_Login(t *testing.T) {
	handler, _ := newTestHandler(t)

	signup := postJSON(t, handler.Signup, "/api/users/signup", SignupRequest{
		Name: "Ann", Email: "ann@x.com", Password: "pw123",
	})
	require.Equal(t, http.StatusCreated, signup.Code)

	w := postJSON(t, handler.Login, "/api/users/login", LoginRequest{
		Email:    "ann@x.com",
		Password: "pw123",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])

	userBody, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ann@x.com", userBody["email"])
}

// Wrong password and unknown email return the same generic message
func TestHandler_Login_InvalidCredentials(t *testing.T) {
	handler, _ := newTestHandler(t)

	signup := postJSON(t, handler.Signup, "/api/users/signup", SignupRequest{
		Name: "Ann", Email: "ann@x.com", Password: "pw123",
	})
	require.Equal(t, http.StatusCreated, signup.Code)

	wrongPass := postJSON(t, handler.Login, "/api/users/login", LoginRequest{
		Email: "ann@x.com", Password: "wrong",
	})
	noUser := postJSON(t, handler.Login, "/api/users/login", LoginRequest{
		Email: "nobody@x.com", Password: "pw123",
	})

	assert.Equal(t, http.StatusBadRequest, wrongPass.Code)
	assert.Equal(t, http.StatusBadRequest, noUser.Code)
	assert.Equal(t, "Invalid email or password", decodeBody(t, wrongPass)["message"])
	assert.Equal(t, "Invalid email or password", decodeBody(t, noUser)["message"])
}

func TestHandler_Login_ServerError(t *testing.T) {
	repo := newMockUserRepo()
	repo.getError = assert.AnError
	handler := NewHandler(newTestService(t, repo))

	w := postJSON(t, handler.Login, "/api/users/login", LoginRequest{
		Email: "ann@x.com", Password: "pw123",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error", decodeBody(t, w)["message"])
}

func TestHandler_Me(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestService(t, repo)
	handler := NewHandler(svc)

	created, _, err := svc.Signup(context.Background(), "Ann", "ann@x.com", "pw123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), UserIDContextKey, created.ID.Hex()))
	w := httptest.NewRecorder()
	handler.Me(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	userBody, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ann@x.com", userBody["email"])
}

func TestHandler_Me_NoIdentity(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	handler.Me(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
