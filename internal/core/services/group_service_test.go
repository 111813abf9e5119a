package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/core/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type GroupServiceTestSuite struct {
	suite.Suite
	groupRepo   *MockGroupRepository
	cycleRepo   *MockCycleRepository
	facilitator domain.Actor
	service     portssvc.GroupSvcFacade
}

func (suite *GroupServiceTestSuite) SetupTest() {
	suite.groupRepo = new(MockGroupRepository)
	suite.cycleRepo = new(MockCycleRepository)
	suite.facilitator = domain.Actor{UserID: 5, Role: domain.RoleFacilitator}
	suite.service = services.NewGroupService(suite.groupRepo, suite.cycleRepo,
		services.WithClock(fixedClock(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))))
}

func (suite *GroupServiceTestSuite) TestCreateGroup_AppliesDefaults() {
	ctx := context.Background()
	suite.cycleRepo.On("FindCycleByID", mock.Anything, int64(3)).Return(&domain.Cycle{CycleID: 3, Phase: domain.PhaseFormation}, nil).Once()
	expectTx(&suite.groupRepo.Mock, true)
	suite.groupRepo.On("SaveGroup", mock.Anything, mock.Anything, mock.MatchedBy(func(g domain.Group) bool {
		return g.MaxMembers == 25 &&
			g.ShareValue.Equal(dec("1000")) &&
			g.LoanInterestRate.Equal(dec("10")) &&
			g.LoanDurationMonths == 6 &&
			g.SolidarityContributionRate.Equal(dec("5")) &&
			g.Status == domain.GroupActive &&
			g.CurrentMembers == 0 &&
			g.TotalSavings.IsZero() &&
			g.CreatedBy == 5
	})).Return(&domain.Group{GroupID: 9, CycleID: 3}, nil).Once()

	created, err := suite.service.CreateGroup(ctx, suite.facilitator, dto.CreateGroupRequest{CycleID: 3, Name: "Tiwindi", Village: "Koro"})

	suite.Require().NoError(err)
	suite.Equal(int64(9), created.GroupID)
	suite.groupRepo.AssertExpectations(suite.T())
}

func (suite *GroupServiceTestSuite) TestCreateGroup_CompletedCycle() {
	ctx := context.Background()
	suite.cycleRepo.On("FindCycleByID", mock.Anything, int64(3)).Return(&domain.Cycle{CycleID: 3, IsCompleted: true}, nil).Once()

	_, err := suite.service.CreateGroup(ctx, suite.facilitator, dto.CreateGroupRequest{CycleID: 3, Name: "Late", Village: "Koro"})

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.groupRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *GroupServiceTestSuite) TestCreateGroup_NegativeShareValue() {
	ctx := context.Background()
	suite.cycleRepo.On("FindCycleByID", mock.Anything, int64(3)).Return(&domain.Cycle{CycleID: 3}, nil).Once()

	_, err := suite.service.CreateGroup(ctx, suite.facilitator, dto.CreateGroupRequest{CycleID: 3, Name: "Bad", Village: "Koro", ShareValue: dec("-5")})

	suite.ErrorIs(err, domain.ErrInvalidShareValue)
}

func (suite *GroupServiceTestSuite) TestCreateGroup_SupervisorForbidden() {
	_, err := suite.service.CreateGroup(context.Background(), domain.Actor{UserID: 2, Role: domain.RoleSupervisor}, dto.CreateGroupRequest{CycleID: 3})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *GroupServiceTestSuite) TestUpdateGroup_ResizeKeepsStatusConsistent() {
	ctx := context.Background()
	group := &domain.Group{GroupID: 9, Status: domain.GroupFull, CurrentMembers: 3, MaxMembers: 3, Version: 1, AuditFields: domain.AuditFields{CreatedBy: 5}}
	maxMembers := 5
	expectTx(&suite.groupRepo.Mock, true)
	suite.groupRepo.On("FindGroupByIDForUpdate", mock.Anything, mock.Anything, int64(9)).Return(group, nil).Once()
	suite.groupRepo.On("UpdateGroup", mock.Anything, mock.Anything, mock.MatchedBy(func(g domain.Group) bool {
		return g.MaxMembers == 5 && g.Status == domain.GroupActive
	})).Return(nil).Once()

	updated, err := suite.service.UpdateGroup(ctx, suite.facilitator, 9, dto.UpdateGroupRequest{MaxMembers: &maxMembers})

	suite.Require().NoError(err)
	suite.Equal(domain.GroupActive, updated.Status)
	suite.Equal(int64(2), updated.Version)
}

func (suite *GroupServiceTestSuite) TestUpdateGroup_CapacityBelowMembers() {
	ctx := context.Background()
	group := &domain.Group{GroupID: 9, Status: domain.GroupActive, CurrentMembers: 4, MaxMembers: 10}
	maxMembers := 3
	expectTx(&suite.groupRepo.Mock, false)
	suite.groupRepo.On("FindGroupByIDForUpdate", mock.Anything, mock.Anything, int64(9)).Return(group, nil).Once()

	_, err := suite.service.UpdateGroup(ctx, domain.Actor{UserID: 1, Role: domain.RoleAdmin}, 9, dto.UpdateGroupRequest{MaxMembers: &maxMembers})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.groupRepo.AssertNotCalled(suite.T(), "UpdateGroup", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GroupServiceTestSuite) TestUpdateGroup_StatusCannotBeForced() {
	ctx := context.Background()
	group := &domain.Group{GroupID: 9, Status: domain.GroupActive, CurrentMembers: 1, MaxMembers: 10}
	status := string(domain.GroupCompleted)
	expectTx(&suite.groupRepo.Mock, false)
	suite.groupRepo.On("FindGroupByIDForUpdate", mock.Anything, mock.Anything, int64(9)).Return(group, nil).Once()

	_, err := suite.service.UpdateGroup(ctx, domain.Actor{UserID: 1, Role: domain.RoleAdmin}, 9, dto.UpdateGroupRequest{Status: &status})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *GroupServiceTestSuite) TestDeleteGroup_WithMembersConflict() {
	ctx := context.Background()
	expectTx(&suite.groupRepo.Mock, false)
	suite.groupRepo.On("FindGroupByIDForUpdate", mock.Anything, mock.Anything, int64(9)).
		Return(&domain.Group{GroupID: 9, CurrentMembers: 2}, nil).Once()

	err := suite.service.DeleteGroup(ctx, domain.Actor{UserID: 1, Role: domain.RoleAdmin}, 9)

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.groupRepo.AssertNotCalled(suite.T(), "DeleteGroup", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GroupServiceTestSuite) TestDeleteGroup_Empty() {
	ctx := context.Background()
	expectTx(&suite.groupRepo.Mock, true)
	suite.groupRepo.On("FindGroupByIDForUpdate", mock.Anything, mock.Anything, int64(9)).
		Return(&domain.Group{GroupID: 9}, nil).Once()
	suite.groupRepo.On("DeleteGroup", mock.Anything, mock.Anything, int64(9)).Return(nil).Once()

	suite.NoError(suite.service.DeleteGroup(ctx, domain.Actor{UserID: 1, Role: domain.RoleAdmin}, 9))
}

func TestGroupServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GroupServiceTestSuite))
}
