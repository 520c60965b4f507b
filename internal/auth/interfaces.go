package auth

import (
	"context"

	"github.com/jmarek09/go-user-auth/internal/user"
)

// UserRepository is the persistence surface the auth service depends on
type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// TokenService issues and verifies session tokens
type TokenService interface {
	CreateToken(userID string) (string, error)
	VerifyToken(token string) (*Claims, error)
}
