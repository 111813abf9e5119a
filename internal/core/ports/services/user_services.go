package services

import (
	"context"
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users. Administrators only.
	ListUsers(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser registers a new member account.
	CreateUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// UpdateUser changes profile, role or status. Administrators only.
	UpdateUser(ctx context.Context, actor domain.Actor, userID int64, req dto.UpdateUserRequest) (*domain.User, error)

	// UpdateProfile lets users edit their own name and phone.
	UpdateProfile(ctx context.Context, actor domain.Actor, req dto.UpdateProfileRequest) (*domain.User, error)

	// ChangePassword verifies the current password, stores the new one and signs out other sessions.
	ChangePassword(ctx context.Context, actor domain.Actor, req dto.ChangePasswordRequest) error

	UpdateRefreshToken(ctx context.Context, userID int64, refreshTokenHash string, refreshTokenExpiryTime time.Time) error
	ClearRefreshToken(ctx context.Context, userID int64) error

	// FindOrCreateGoogleUser links a verified Google identity to a user, creating one on first login.
	FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error)
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser checks a username/password pair.
	AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
