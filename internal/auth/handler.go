package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmarek09/go-user-auth/internal/httputil"
	"github.com/jmarek09/go-user-auth/internal/logging"
	"github.com/jmarek09/go-user-auth/internal/user"
)

// Handler contains HTTP handlers for the user endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse is the success body for both signup and login
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// MeResponse is the success body for the current-user endpoint
type MeResponse struct {
	User UserResponse `json:"user"`
}

// Signup handles user registration
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid signup request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	newUser, token, err := h.service.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			logger.Warn("signup failed: email already exists")
			httputil.RespondError(w, "User already exists", http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrNameRequired) || errors.Is(err, ErrEmailRequired) || errors.Is(err, ErrPasswordRequired) {
			logger.Warn("signup failed: validation error", "error", err.Error())
			httputil.RespondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error("signup failed: internal error", "error", err.Error())
		httputil.RespondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	logger.Info("user created", "user_id", newUser.ID.Hex())

	httputil.RespondJSON(w, AuthResponse{
		Message: "User created successfully",
		Token:   token,
		User:    toUserResponse(newUser),
	}, http.StatusCreated)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	existing, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			httputil.RespondError(w, "Invalid email or password", http.StatusBadRequest)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in", "user_id", existing.ID.Hex())

	httputil.RespondJSON(w, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    toUserResponse(existing),
	}, http.StatusOK)
}

// Me returns the user identified by the verified bearer token
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, "missing authentication", http.StatusUnauthorized)
		return
	}

	u, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			logger.Warn("current user lookup failed: not found", "user_id", userID)
			httputil.RespondError(w, "user not found", http.StatusUnauthorized)
			return
		}
		logger.Error("current user lookup failed: internal error", "error", err.Error())
		httputil.RespondError(w, "Server error", http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, MeResponse{User: toUserResponse(u)}, http.StatusOK)
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
	}
}
