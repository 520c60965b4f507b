package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/jmarek09/go-user-auth/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
)

// bcryptCost matches the cost factor used for all existing password hashes
const bcryptCost = 10

// Service handles signup and login business logic
type Service struct {
	users  UserRepository
	tokens TokenService
}

func NewService(users UserRepository, tokens TokenService) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
	}
}

// Signup creates a new user account and returns it with a session token.
// The email existence check and the insert are two separate operations;
// the unique index on email is what makes a concurrent duplicate surface
// as user.ErrDuplicateEmail instead of a second document.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*user.User, string, error) {
	// Validate input
	if name == "" {
		return nil, "", ErrNameRequired
	}
	if email == "" {
		return nil, "", ErrEmailRequired
	}
	if password == "" {
		return nil, "", ErrPasswordRequired
	}

	// Check if email already exists
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", user.ErrDuplicateEmail
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	// Hash the password
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	// Insert the new user; the store assigns the identifier
	newUser, err := s.users.Create(ctx, name, email, string(hash))
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, "", user.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.CreateToken(newUser.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("failed to create token: %w", err)
	}

	return newUser, token, nil
}

// Login authenticates a user and returns it with a session token.
// A missing account and a wrong password are deliberately
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existing.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("failed to create token: %w", err)
	}

	return existing, token, nil
}

// GetUser loads a user by the identifier carried in a verified token
func (s *Service) GetUser(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrInvalidID) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}
