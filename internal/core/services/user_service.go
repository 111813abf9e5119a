package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/core/policy"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/utils"
	"github.com/SscSPs/avec_backend/internal/utils/pagination"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service with the provided options
func NewUserService(userRepo portsrepo.UserRepositoryFacade, options ...BaseOption) portssvc.UserSvcFacade {
	return &userService{
		BaseService: newBaseService(options...),
		userRepo:    userRepo,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, passThrough(err, "failed to get user by ID")
	}
	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, passThrough(err, "failed to get user by username")
	}
	return user, nil
}

// ListUsers retrieves a paginated list of users. Administrators only.
func (s *userService) ListUsers(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.User, error) {
	if err := policy.Authorize(policy.UserManage, actor, nil); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindUsers(ctx, pagination.ClampLimit(limit), max(offset, 0))
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, passThrough(err, "failed to list users")
	}
	return users, nil
}

// ensureAvailable fails with a duplicate error when a lookup found a user.
func ensureAvailable(what string, user *domain.User, err error) error {
	if err == nil && user != nil {
		return apperrors.NewDuplicateError(fmt.Sprintf("%s is already taken", what))
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check %s: %w", what, err)
	}
	return nil
}

// CreateUser registers a new member account.
func (s *userService) CreateUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	existing, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err := ensureAvailable("username", existing, err); err != nil {
		return nil, err
	}
	if req.Email != "" {
		existing, err := s.userRepo.FindUserByEmail(ctx, req.Email)
		if err := ensureAvailable("email", existing, err); err != nil {
			return nil, err
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Village:      req.Village,
		Role:         domain.RoleMember,
		Status:       domain.UserActive,
		PasswordHash: &hash,
		AuditFields:  domain.NewAuditFields(0, s.Now()),
	}
	created, err := s.userRepo.SaveUser(ctx, user)
	if err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("username", req.Username))
		return nil, passThrough(err, "failed to create user")
	}
	s.LogInfo(ctx, "User registered", slog.Int64("user_id", created.UserID))
	return created, nil
}

// UpdateUser changes profile, role or status. Administrators only.
func (s *userService) UpdateUser(ctx context.Context, actor domain.Actor, userID int64, req dto.UpdateUserRequest) (*domain.User, error) {
	if err := policy.Authorize(policy.UserManage, actor, nil); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, passThrough(err, "failed to get user")
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Village != nil {
		user.Village = *req.Village
	}
	if req.Role != nil {
		role, ok := domain.ParseUserRole(*req.Role)
		if !ok {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown role %q", *req.Role))
		}
		user.Role = role
	}
	if req.Status != nil {
		user.Status = domain.UserStatus(*req.Status)
	}
	user.Touch(actor.UserID, s.Now())

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.Int64("user_id", userID))
		return nil, passThrough(err, "failed to update user")
	}
	return user, nil
}

// UpdateProfile lets users edit their own name and phone.
func (s *userService) UpdateProfile(ctx context.Context, actor domain.Actor, req dto.UpdateProfileRequest) (*domain.User, error) {
	firstName, lastName := strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, apperrors.NewValidationFailedError("first name and last name are required")
	}
	user, err := s.userRepo.FindUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, passThrough(err, "failed to get user")
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.Phone = strings.TrimSpace(req.Phone)
	user.Touch(actor.UserID, s.Now())

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update profile", slog.Int64("user_id", actor.UserID))
		return nil, passThrough(err, "failed to update profile")
	}
	s.LogInfo(ctx, "Profile updated", slog.Int64("user_id", actor.UserID))
	return user, nil
}

// ChangePassword verifies the current password before storing the new one.
// Accounts created through Google sign-in have no password to change.
func (s *userService) ChangePassword(ctx context.Context, actor domain.Actor, req dto.ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return apperrors.NewValidationFailedError("new password and confirmation do not match")
	}
	if len(req.NewPassword) < utils.MinPasswordLength {
		return apperrors.NewValidationFailedError(fmt.Sprintf("password must be at least %d characters", utils.MinPasswordLength))
	}
	user, err := s.userRepo.FindUserByID(ctx, actor.UserID)
	if err != nil {
		return passThrough(err, "failed to get user")
	}
	if user.PasswordHash == nil {
		return apperrors.NewValidationFailedError("account has no password; sign in with Google")
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, *user.PasswordHash) {
		return apperrors.NewValidationFailedError("current password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, actor.UserID, hash, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to change password", slog.Int64("user_id", actor.UserID))
		return passThrough(err, "failed to change password")
	}
	s.LogInfo(ctx, "Password changed", slog.Int64("user_id", actor.UserID))
	return nil
}

func (s *userService) UpdateRefreshToken(ctx context.Context, userID int64, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, &refreshTokenHash, &refreshTokenExpiryTime); err != nil {
		return passThrough(err, "failed to store refresh token")
	}
	return nil
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID int64) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, nil, nil); err != nil {
		return passThrough(err, "failed to clear refresh token")
	}
	return nil
}

// FindOrCreateGoogleUser links a verified Google identity to a user, creating
// a member account on first login. An existing account with the same email
// gets the Google id attached.
func (s *userService) FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	if info.ID == "" || info.Email == "" || !info.VerifiedEmail {
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "google account has no verified email", nil)
	}

	user, err := s.userRepo.FindUserByGoogleID(ctx, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up google user: %w", err)
	}

	user, err = s.userRepo.FindUserByEmail(ctx, info.Email)
	switch {
	case err == nil:
		googleID := info.ID
		user.GoogleID = &googleID
		user.Touch(user.UserID, s.Now())
		if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
			return nil, passThrough(err, "failed to link google account")
		}
		s.LogInfo(ctx, "Google account linked", slog.Int64("user_id", user.UserID))
		return user, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	googleID := info.ID
	created, err := s.userRepo.SaveUser(ctx, domain.User{
		Username:    strings.ToLower(info.Email),
		Email:       info.Email,
		FirstName:   info.GivenName,
		LastName:    info.FamilyName,
		Role:        domain.RoleMember,
		Status:      domain.UserActive,
		GoogleID:    &googleID,
		AuditFields: domain.NewAuditFields(0, s.Now()),
	})
	if err != nil {
		return nil, passThrough(err, "failed to create google user")
	}
	s.LogInfo(ctx, "User created from google sign-in", slog.Int64("user_id", created.UserID))
	return created, nil
}

// AuthenticateUser checks a username/password pair. Unknown users, wrong
// passwords and inactive accounts all fail as unauthorized.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.PasswordHash == nil || !utils.CheckPasswordHash(password, *user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
