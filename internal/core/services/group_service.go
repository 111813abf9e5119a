package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/core/policy"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// groupService manages group records and their settings.
type groupService struct {
	BaseService
	groupRepo portsrepo.GroupRepositoryWithTx
	cycleRepo portsrepo.CycleReader
}

// NewGroupService creates a new group service with the provided options
func NewGroupService(groupRepo portsrepo.GroupRepositoryWithTx, cycleRepo portsrepo.CycleReader, options ...BaseOption) portssvc.GroupSvcFacade {
	return &groupService{
		BaseService: newBaseService(options...),
		groupRepo:   groupRepo,
		cycleRepo:   cycleRepo,
	}
}

var _ portssvc.GroupSvcFacade = (*groupService)(nil)

func (s *groupService) GetGroupByID(ctx context.Context, actor domain.Actor, groupID int64) (*domain.Group, error) {
	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, passThrough(err, "failed to get group")
	}
	return group, nil
}

func (s *groupService) ListGroups(ctx context.Context, actor domain.Actor, params dto.ListGroupsParams) ([]domain.Group, error) {
	filter := domain.GroupFilter{
		CycleID: params.CycleID,
		Status:  domain.GroupStatus(params.Status),
		Village: params.Village,
		Limit:   pagination.ClampLimit(params.Limit),
		Offset:  max(params.Offset, 0),
	}
	groups, err := s.groupRepo.ListGroups(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list groups")
		return nil, passThrough(err, "failed to list groups")
	}
	return groups, nil
}

func (s *groupService) CreateGroup(ctx context.Context, actor domain.Actor, req dto.CreateGroupRequest) (*domain.Group, error) {
	if err := policy.Authorize(policy.GroupCreate, actor, nil); err != nil {
		return nil, err
	}

	cycle, err := s.cycleRepo.FindCycleByID(ctx, req.CycleID)
	if err != nil {
		return nil, passThrough(err, "failed to load cycle for group")
	}
	if cycle.IsCompleted {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("cycle %d is completed and cannot take new groups", cycle.CycleID))
	}

	group := newGroupFromRequest(req, actor.UserID, s.Now())
	if !group.ShareValue.IsPositive() {
		return nil, domain.ErrInvalidShareValue
	}

	tx, err := s.groupRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.groupRepo.Rollback(ctx, tx)

	created, err := s.groupRepo.SaveGroup(ctx, tx, group)
	if err != nil {
		s.LogError(ctx, err, "Failed to save group", slog.Int64("cycle_id", req.CycleID))
		return nil, passThrough(err, "failed to create group")
	}
	if err := s.groupRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit group creation: %w", err)
	}

	s.LogInfo(ctx, "Group created",
		slog.Int64("group_id", created.GroupID),
		slog.Int64("cycle_id", created.CycleID))
	return created, nil
}

// newGroupFromRequest fills the defaults of a new group: 25 members, a 1000
// share value, 10% loan interest, 6 month loans and 5% solidarity.
func newGroupFromRequest(req dto.CreateGroupRequest, userID int64, now time.Time) domain.Group {
	group := domain.Group{
		CycleID:                    req.CycleID,
		Name:                       req.Name,
		Description:                req.Description,
		Village:                    req.Village,
		MaxMembers:                 req.MaxMembers,
		Status:                     domain.GroupActive,
		MeetingLocation:            req.MeetingLocation,
		MeetingTime:                req.MeetingTime,
		ShareValue:                 req.ShareValue,
		ContributionAmount:         req.ContributionAmount,
		TotalSavings:               decimal.Zero,
		TotalLoans:                 decimal.Zero,
		SolidarityFund:             decimal.Zero,
		LoanInterestRate:           domain.DefaultLoanInterestRate,
		MaxLoanAmount:              req.MaxLoanAmount,
		LoanDurationMonths:         req.LoanDurationMonths,
		SolidarityContributionRate: domain.DefaultSolidarityContributionRate,
		AuditFields:                domain.NewAuditFields(userID, now),
	}
	if group.MaxMembers == 0 {
		group.MaxMembers = domain.DefaultMaxMembers
	}
	if group.ShareValue.IsZero() {
		group.ShareValue = domain.DefaultShareValue
	}
	if group.LoanDurationMonths == 0 {
		group.LoanDurationMonths = domain.DefaultLoanDurationMonths
	}
	if req.LoanInterestRate != nil {
		group.LoanInterestRate = *req.LoanInterestRate
	}
	if req.SolidarityContributionRate != nil {
		group.SolidarityContributionRate = *req.SolidarityContributionRate
	}
	return group
}

func (s *groupService) UpdateGroup(ctx context.Context, actor domain.Actor, groupID int64, req dto.UpdateGroupRequest) (*domain.Group, error) {
	tx, err := s.groupRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.groupRepo.Rollback(ctx, tx)

	group, err := s.groupRepo.FindGroupByIDForUpdate(ctx, tx, groupID)
	if err != nil {
		return nil, passThrough(err, "failed to load group")
	}
	if err := policy.Authorize(policy.GroupEdit, actor, policy.ForGroup(actor, group, false)); err != nil {
		return nil, err
	}
	if group.IsShared() {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("group %d has already shared out its capital", groupID))
	}

	if err := applyGroupUpdate(group, req); err != nil {
		return nil, err
	}
	group.Touch(actor.UserID, s.Now())

	if err := s.groupRepo.UpdateGroup(ctx, tx, *group); err != nil {
		s.LogError(ctx, err, "Failed to update group", slog.Int64("group_id", groupID))
		return nil, passThrough(err, "failed to update group")
	}
	if err := s.groupRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit group update: %w", err)
	}
	group.Version++
	return group, nil
}

// applyGroupUpdate copies the provided fields and keeps status consistent with capacity.
func applyGroupUpdate(group *domain.Group, req dto.UpdateGroupRequest) error {
	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.Village != nil {
		group.Village = *req.Village
	}
	if req.MeetingLocation != nil {
		group.MeetingLocation = *req.MeetingLocation
	}
	if req.MeetingTime != nil {
		group.MeetingTime = *req.MeetingTime
	}
	if req.ContributionAmount != nil {
		group.ContributionAmount = *req.ContributionAmount
	}
	if req.LoanInterestRate != nil {
		group.LoanInterestRate = *req.LoanInterestRate
	}
	if req.MaxLoanAmount != nil {
		group.MaxLoanAmount = *req.MaxLoanAmount
	}
	if req.LoanDurationMonths != nil {
		group.LoanDurationMonths = *req.LoanDurationMonths
	}
	if req.SolidarityContributionRate != nil {
		group.SolidarityContributionRate = *req.SolidarityContributionRate
	}
	if req.Status != nil {
		switch domain.GroupStatus(*req.Status) {
		case domain.GroupInactive:
			group.Status = domain.GroupInactive
		case domain.GroupActive:
			group.Status = domain.GroupActive
			if group.CurrentMembers >= group.MaxMembers {
				group.Status = domain.GroupFull
			}
		default:
			return apperrors.NewValidationFailedError(fmt.Sprintf("status %q cannot be set directly", *req.Status))
		}
	}
	if req.MaxMembers != nil {
		if err := group.Resize(*req.MaxMembers); err != nil {
			return err
		}
	}
	return nil
}

// DeleteGroup fails with a conflict while the group has members.
func (s *groupService) DeleteGroup(ctx context.Context, actor domain.Actor, groupID int64) error {
	tx, err := s.groupRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.groupRepo.Rollback(ctx, tx)

	group, err := s.groupRepo.FindGroupByIDForUpdate(ctx, tx, groupID)
	if err != nil {
		return passThrough(err, "failed to load group")
	}
	if err := policy.Authorize(policy.GroupDelete, actor, policy.ForGroup(actor, group, false)); err != nil {
		return err
	}
	if group.CurrentMembers > 0 {
		return apperrors.NewConflictError(fmt.Sprintf("group %d still has %d member(s)", groupID, group.CurrentMembers))
	}

	if err := s.groupRepo.DeleteGroup(ctx, tx, groupID); err != nil {
		s.LogError(ctx, err, "Failed to delete group", slog.Int64("group_id", groupID))
		return passThrough(err, "failed to delete group")
	}
	if err := s.groupRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit group deletion: %w", err)
	}
	s.LogInfo(ctx, "Group deleted", slog.Int64("group_id", groupID))
	return nil
}
