package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	FindUserByID(ctx context.Context, userID int64) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)

	// FindUsers retrieves a paginated list of users.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user and returns it with its generated ID.
	SaveUser(ctx context.Context, user domain.User) (*domain.User, error)

	// UpdateUser updates profile, role and status.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateRefreshToken stores (or, with nils, clears) the refresh token hash and expiry.
	UpdateRefreshToken(ctx context.Context, userID int64, tokenHash *string, expiry *time.Time) error

	// UpdatePasswordHash replaces the password hash and revokes the stored refresh token.
	UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string, at time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
