package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/core/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type UserServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockUserRepository
	userService portssvc.UserSvcFacade
	admin       domain.Actor
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.userService = services.NewUserService(suite.mockRepo,
		services.WithClock(fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))))
	suite.admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
}

// --- Test Cases ---

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	req := dto.RegisterRequest{Username: "awa", Email: "awa@example.org", Password: "s3cret-pass", FirstName: "Awa"}

	suite.mockRepo.On("FindUserByUsername", ctx, "awa").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindUserByEmail", ctx, "awa@example.org").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "awa" &&
			u.Role == domain.RoleMember &&
			u.Status == domain.UserActive &&
			u.PasswordHash != nil &&
			utils.CheckPasswordHash("s3cret-pass", *u.PasswordHash)
	})).Return(&domain.User{UserID: 31, Username: "awa", Role: domain.RoleMember}, nil).Once()

	created, err := suite.userService.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(int64(31), created.UserID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByUsername", ctx, "awa").Return(&domain.User{UserID: 31}, nil).Once()

	_, err := suite.userService.CreateUser(ctx, dto.RegisterRequest{Username: "awa", Password: "s3cret-pass"})

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_LookupFailure() {
	ctx := context.Background()
	dbErr := errors.New("connection reset")
	suite.mockRepo.On("FindUserByUsername", ctx, "awa").Return(nil, dbErr).Once()

	_, err := suite.userService.CreateUser(ctx, dto.RegisterRequest{Username: "awa", Password: "s3cret-pass"})

	suite.ErrorIs(err, dbErr)
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByID", ctx, int64(99)).Return(nil, apperrors.NewNotFoundError("user 99 not found")).Once()

	user, err := suite.userService.GetUserByID(ctx, 99)

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestListUsers_AdminOnly() {
	ctx := context.Background()
	suite.mockRepo.On("FindUsers", ctx, 20, 0).Return([]domain.User{{UserID: 1}, {UserID: 2}}, nil).Once()

	users, err := suite.userService.ListUsers(ctx, suite.admin, 0, -3)
	suite.Require().NoError(err)
	suite.Len(users, 2)

	_, err = suite.userService.ListUsers(ctx, domain.Actor{UserID: 4, Role: domain.RoleSupervisor}, 10, 0)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestUpdateUser_NormalisesLegacyRole() {
	ctx := context.Background()
	role := "animateur"
	village := "Koro"
	suite.mockRepo.On("FindUserByID", ctx, int64(7)).Return(&domain.User{UserID: 7, Role: domain.RoleMember, Status: domain.UserActive}, nil).Once()
	suite.mockRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleFacilitator && u.Village == "Koro" && u.LastUpdatedBy == 1
	})).Return(nil).Once()

	updated, err := suite.userService.UpdateUser(ctx, suite.admin, 7, dto.UpdateUserRequest{Role: &role, Village: &village})

	suite.Require().NoError(err)
	suite.Equal(domain.RoleFacilitator, updated.Role)
}

func (suite *UserServiceTestSuite) TestUpdateUser_UnknownRole() {
	ctx := context.Background()
	role := "chief"
	suite.mockRepo.On("FindUserByID", ctx, int64(7)).Return(&domain.User{UserID: 7}, nil).Once()

	_, err := suite.userService.UpdateUser(ctx, suite.admin, 7, dto.UpdateUserRequest{Role: &role})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRefreshTokenStoreAndClear() {
	ctx := context.Background()
	expiry := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)
	suite.mockRepo.On("UpdateRefreshToken", ctx, int64(7), mock.MatchedBy(func(h *string) bool { return h != nil && *h == "hash" }), &expiry).Return(nil).Once()
	suite.mockRepo.On("UpdateRefreshToken", ctx, int64(7), (*string)(nil), (*time.Time)(nil)).Return(nil).Once()

	suite.NoError(suite.userService.UpdateRefreshToken(ctx, 7, "hash", expiry))
	suite.NoError(suite.userService.ClearRefreshToken(ctx, 7))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser() {
	ctx := context.Background()
	hash, err := utils.HashPassword("right-password")
	suite.Require().NoError(err)
	active := &domain.User{UserID: 7, Username: "awa", Status: domain.UserActive, PasswordHash: &hash}
	inactive := &domain.User{UserID: 8, Username: "moussa", Status: domain.UserInactive, PasswordHash: &hash}

	suite.mockRepo.On("FindUserByUsername", ctx, "awa").Return(active, nil)
	suite.mockRepo.On("FindUserByUsername", ctx, "moussa").Return(inactive, nil)
	suite.mockRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound)

	user, err := suite.userService.AuthenticateUser(ctx, "awa", "right-password")
	suite.Require().NoError(err)
	suite.Equal(int64(7), user.UserID)

	_, err = suite.userService.AuthenticateUser(ctx, "awa", "wrong-password")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.userService.AuthenticateUser(ctx, "moussa", "right-password")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.userService.AuthenticateUser(ctx, "ghost", "right-password")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_LinksExistingEmail() {
	ctx := context.Background()
	info := domain.GoogleUserInfo{ID: "g-1", Email: "awa@example.org", VerifiedEmail: true}
	suite.mockRepo.On("FindUserByGoogleID", ctx, "g-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindUserByEmail", ctx, "awa@example.org").Return(&domain.User{UserID: 7, Email: "awa@example.org"}, nil).Once()
	suite.mockRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.GoogleID != nil && *u.GoogleID == "g-1"
	})).Return(nil).Once()

	user, err := suite.userService.FindOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.Equal(int64(7), user.UserID)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_CreatesMember() {
	ctx := context.Background()
	info := domain.GoogleUserInfo{ID: "g-2", Email: "New.User@Example.org", VerifiedEmail: true, GivenName: "New"}
	suite.mockRepo.On("FindUserByGoogleID", ctx, "g-2").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindUserByEmail", ctx, info.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "new.user@example.org" && u.Role == domain.RoleMember && u.PasswordHash == nil
	})).Return(&domain.User{UserID: 40}, nil).Once()

	user, err := suite.userService.FindOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.Equal(int64(40), user.UserID)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_UnverifiedEmail() {
	_, err := suite.userService.FindOrCreateGoogleUser(context.Background(), domain.GoogleUserInfo{ID: "g-3", Email: "x@example.org"})

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestUpdateProfile_OwnRecord() {
	ctx := context.Background()
	member := domain.Actor{UserID: 11, Role: domain.RoleMember}
	suite.mockRepo.On("FindUserByID", ctx, int64(11)).
		Return(&domain.User{UserID: 11, FirstName: "Awa", LastName: "Diallo", Phone: "+221 70"}, nil).Once()
	suite.mockRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.UserID == 11 && u.FirstName == "Aminata" && u.LastName == "Sow" && u.Phone == "" && u.LastUpdatedBy == 11
	})).Return(nil).Once()

	user, err := suite.userService.UpdateProfile(ctx, member, dto.UpdateProfileRequest{FirstName: " Aminata ", LastName: "Sow"})

	suite.Require().NoError(err)
	suite.Equal("Aminata", user.FirstName)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateProfile_BlankNameRejected() {
	_, err := suite.userService.UpdateProfile(context.Background(), suite.admin, dto.UpdateProfileRequest{FirstName: "Awa", LastName: "  "})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) userWithPassword(userID int64, password string) {
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	suite.mockRepo.On("FindUserByID", mock.Anything, userID).Return(&domain.User{UserID: userID, PasswordHash: &hash}, nil).Once()
}

func (suite *UserServiceTestSuite) TestChangePassword_Success() {
	ctx := context.Background()
	member := domain.Actor{UserID: 11, Role: domain.RoleMember}
	suite.userWithPassword(11, "old-secret")
	suite.mockRepo.On("UpdatePasswordHash", ctx, int64(11), mock.MatchedBy(func(hash string) bool {
		return utils.CheckPasswordHash("new-secret-1", hash)
	}), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)).Return(nil).Once()

	err := suite.userService.ChangePassword(ctx, member, dto.ChangePasswordRequest{
		CurrentPassword: "old-secret", NewPassword: "new-secret-1", ConfirmPassword: "new-secret-1",
	})

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestChangePassword_Rejections() {
	member := domain.Actor{UserID: 11, Role: domain.RoleMember}
	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		storedPwd string
	}{
		{"confirmation mismatch", dto.ChangePasswordRequest{CurrentPassword: "old-secret", NewPassword: "new-secret-1", ConfirmPassword: "new-secret-2"}, ""},
		{"too short", dto.ChangePasswordRequest{CurrentPassword: "old-secret", NewPassword: "short", ConfirmPassword: "short"}, ""},
		{"wrong current password", dto.ChangePasswordRequest{CurrentPassword: "guess", NewPassword: "new-secret-1", ConfirmPassword: "new-secret-1"}, "old-secret"},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			if tt.storedPwd != "" {
				suite.userWithPassword(11, tt.storedPwd)
			}

			err := suite.userService.ChangePassword(context.Background(), member, tt.req)

			suite.ErrorIs(err, apperrors.ErrValidation)
			suite.mockRepo.AssertNotCalled(suite.T(), "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func (suite *UserServiceTestSuite) TestChangePassword_GoogleOnlyAccount() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByID", ctx, int64(40)).Return(&domain.User{UserID: 40}, nil).Once()

	err := suite.userService.ChangePassword(ctx, domain.Actor{UserID: 40, Role: domain.RoleMember}, dto.ChangePasswordRequest{
		CurrentPassword: "anything", NewPassword: "new-secret-1", ConfirmPassword: "new-secret-1",
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Run Test Suite ---
func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func TestNewUserService(t *testing.T) {
	assert.NotNil(t, services.NewUserService(new(MockUserRepository)))
}
