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

type CycleServiceTestSuite struct {
	suite.Suite
	cycleRepo *MockCycleRepository
	outbox    *MockOutbox
	now       time.Time
	service   portssvc.CycleSvcFacade
}

func (suite *CycleServiceTestSuite) SetupTest() {
	suite.cycleRepo = new(MockCycleRepository)
	suite.outbox = new(MockOutbox)
	suite.now = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	suite.service = services.NewCycleService(suite.cycleRepo,
		services.WithOutbox(suite.outbox), services.WithClock(fixedClock(suite.now)))
}

func (suite *CycleServiceTestSuite) TestCreateCycle_Defaults() {
	ctx := context.Background()
	facilitator := domain.Actor{UserID: 5, Role: domain.RoleFacilitator}
	org := int64(2)
	expectTx(&suite.cycleRepo.Mock, true)
	suite.cycleRepo.On("SaveCycle", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.Cycle) bool {
		return c.Phase == domain.PhasePreparation &&
			c.Status == domain.CycleActive &&
			c.MeetingFrequency == "weekly" &&
			c.CycleYear == 1 &&
			c.CreatedBy == 5 &&
			c.OrganizationID != nil && *c.OrganizationID == 2 &&
			c.CurrentAmount.IsZero()
	})).Return(&domain.Cycle{CycleID: 3, Phase: domain.PhasePreparation}, nil).Once()

	created, err := suite.service.CreateCycle(ctx, facilitator, dto.CreateCycleRequest{
		Name:           "Cycle 2026",
		OrganizationID: &org,
		StartDate:      suite.now,
	})

	suite.Require().NoError(err)
	suite.Equal(int64(3), created.CycleID)
	suite.cycleRepo.AssertExpectations(suite.T())
}

func (suite *CycleServiceTestSuite) TestCreateCycle_EndBeforeStart() {
	end := suite.now.Add(-time.Hour)

	_, err := suite.service.CreateCycle(context.Background(), domain.Actor{UserID: 1, Role: domain.RoleAdmin}, dto.CreateCycleRequest{
		Name:      "bad",
		StartDate: suite.now,
		EndDate:   &end,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.cycleRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *CycleServiceTestSuite) TestCreateCycle_MemberForbidden() {
	_, err := suite.service.CreateCycle(context.Background(), domain.Actor{UserID: 9, Role: domain.RoleMember}, dto.CreateCycleRequest{
		Name:      "nope",
		StartDate: suite.now,
	})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *CycleServiceTestSuite) TestAdvancePhase_RecordsEvent() {
	ctx := context.Background()
	cycle := &domain.Cycle{CycleID: 3, Phase: domain.PhaseFormation, Status: domain.CycleActive, Version: 4}
	expectTx(&suite.cycleRepo.Mock, true)
	suite.cycleRepo.On("FindCycleByIDForUpdate", mock.Anything, mock.Anything, int64(3)).Return(cycle, nil).Once()
	suite.cycleRepo.On("UpdateCycle", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.Cycle) bool {
		return c.Phase == domain.PhaseSupervision && c.Version == 4
	})).Return(nil).Once()
	suite.outbox.On("InsertEvent", mock.Anything, mock.Anything, eventOfType(domain.EventCyclePhaseAdvanced)).Return(nil).Once()

	advanced, err := suite.service.AdvancePhase(ctx, domain.Actor{UserID: 1, Role: domain.RoleSupervisor}, 3)

	suite.Require().NoError(err)
	suite.Equal(domain.PhaseSupervision, advanced.Phase)
	suite.Equal(int64(5), advanced.Version)
	suite.outbox.AssertExpectations(suite.T())
}

func (suite *CycleServiceTestSuite) TestAdvancePhase_CompletedCycle() {
	ctx := context.Background()
	cycle := &domain.Cycle{CycleID: 3, Phase: domain.PhaseCompleted, IsCompleted: true}
	expectTx(&suite.cycleRepo.Mock, false)
	suite.cycleRepo.On("FindCycleByIDForUpdate", mock.Anything, mock.Anything, int64(3)).Return(cycle, nil).Once()

	_, err := suite.service.AdvancePhase(ctx, domain.Actor{UserID: 1, Role: domain.RoleAdmin}, 3)

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.cycleRepo.AssertNotCalled(suite.T(), "UpdateCycle", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CycleServiceTestSuite) TestUpdateCycle_CreatorMayEditButPhaseIsKept() {
	ctx := context.Background()
	creator := domain.Actor{UserID: 5, Role: domain.RoleFacilitator}
	cycle := &domain.Cycle{CycleID: 3, Phase: domain.PhaseFormation, StartDate: suite.now, AuditFields: domain.AuditFields{CreatedBy: 5}}
	name := "Renamed"
	expectTx(&suite.cycleRepo.Mock, true)
	suite.cycleRepo.On("FindCycleByIDForUpdate", mock.Anything, mock.Anything, int64(3)).Return(cycle, nil).Once()
	suite.cycleRepo.On("UpdateCycle", mock.Anything, mock.Anything, mock.MatchedBy(func(c domain.Cycle) bool {
		return c.Name == "Renamed" && c.Phase == domain.PhaseFormation
	})).Return(nil).Once()

	updated, err := suite.service.UpdateCycle(ctx, creator, 3, dto.UpdateCycleRequest{Name: &name})

	suite.Require().NoError(err)
	suite.Equal("Renamed", updated.Name)
}

func (suite *CycleServiceTestSuite) TestUpdateCycle_OtherFacilitatorForbidden() {
	ctx := context.Background()
	cycle := &domain.Cycle{CycleID: 3, AuditFields: domain.AuditFields{CreatedBy: 5}}
	expectTx(&suite.cycleRepo.Mock, false)
	suite.cycleRepo.On("FindCycleByIDForUpdate", mock.Anything, mock.Anything, int64(3)).Return(cycle, nil).Once()

	_, err := suite.service.UpdateCycle(ctx, domain.Actor{UserID: 6, Role: domain.RoleFacilitator}, 3, dto.UpdateCycleRequest{})

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *CycleServiceTestSuite) TestDeleteCycle_ActiveGroupsConflict() {
	ctx := context.Background()
	expectTx(&suite.cycleRepo.Mock, false)
	suite.cycleRepo.On("FindCycleByIDForUpdate", mock.Anything, mock.Anything, int64(3)).Return(&domain.Cycle{CycleID: 3}, nil).Once()
	suite.cycleRepo.On("CountActiveGroups", mock.Anything, mock.Anything, int64(3)).Return(2, nil).Once()

	err := suite.service.DeleteCycle(ctx, domain.Actor{UserID: 1, Role: domain.RoleAdmin}, 3)

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.cycleRepo.AssertNotCalled(suite.T(), "DeleteCycle", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CycleServiceTestSuite) TestDeleteCycle_NoActiveGroups() {
	ctx := context.Background()
	expectTx(&suite.cycleRepo.Mock, true)
	suite.cycleRepo.On("FindCycleByIDForUpdate", mock.Anything, mock.Anything, int64(3)).Return(&domain.Cycle{CycleID: 3}, nil).Once()
	suite.cycleRepo.On("CountActiveGroups", mock.Anything, mock.Anything, int64(3)).Return(0, nil).Once()
	suite.cycleRepo.On("DeleteCycle", mock.Anything, mock.Anything, int64(3)).Return(nil).Once()

	err := suite.service.DeleteCycle(ctx, domain.Actor{UserID: 1, Role: domain.RoleAdmin}, 3)

	suite.NoError(err)
}

func (suite *CycleServiceTestSuite) TestListCycles_AcceptsLegacyPhaseName() {
	ctx := context.Background()
	suite.cycleRepo.On("ListCycles", mock.Anything, mock.MatchedBy(func(f domain.CycleFilter) bool {
		return f.Phase == domain.PhaseFormation && f.Limit == 20
	})).Return([]domain.Cycle{{CycleID: 3}}, nil).Once()

	cycles, err := suite.service.ListCycles(ctx, domain.Actor{UserID: 1, Role: domain.RoleAdmin}, dto.ListCyclesParams{Phase: "intensive"})

	suite.Require().NoError(err)
	suite.Len(cycles, 1)
}

func (suite *CycleServiceTestSuite) TestListCycles_UnknownPhase() {
	_, err := suite.service.ListCycles(context.Background(), domain.Actor{UserID: 1, Role: domain.RoleAdmin}, dto.ListCyclesParams{Phase: "harvest"})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CycleServiceTestSuite) TestIsReadyForSharing() {
	ctx := context.Background()
	past := suite.now.Add(-time.Hour)
	future := suite.now.Add(time.Hour)
	suite.cycleRepo.On("FindCycleByID", mock.Anything, int64(3)).Return(&domain.Cycle{CycleID: 3, EndDate: &past}, nil).Once()
	suite.cycleRepo.On("FindCycleByID", mock.Anything, int64(4)).Return(&domain.Cycle{CycleID: 4, EndDate: &future}, nil).Once()
	suite.cycleRepo.On("FindCycleByID", mock.Anything, int64(5)).Return(nil, apperrors.NewNotFoundError("cycle 5 not found")).Once()
	actor := domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	ready, err := suite.service.IsReadyForSharing(ctx, actor, 3)
	suite.Require().NoError(err)
	suite.True(ready)

	ready, err = suite.service.IsReadyForSharing(ctx, actor, 4)
	suite.Require().NoError(err)
	suite.False(ready)

	_, err = suite.service.IsReadyForSharing(ctx, actor, 5)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestCycleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CycleServiceTestSuite))
}
