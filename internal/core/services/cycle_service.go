package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/core/policy"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const (
	defaultMeetingFrequency = "weekly"
	aggregateCycle          = "cycle"
)

// cycleService drives the cycle state machine.
type cycleService struct {
	BaseService
	cycleRepo portsrepo.CycleRepositoryWithTx
}

// NewCycleService creates a new cycle service with the provided options
func NewCycleService(cycleRepo portsrepo.CycleRepositoryWithTx, options ...BaseOption) portssvc.CycleSvcFacade {
	return &cycleService{
		BaseService: newBaseService(options...),
		cycleRepo:   cycleRepo,
	}
}

var _ portssvc.CycleSvcFacade = (*cycleService)(nil)

func (s *cycleService) GetCycleByID(ctx context.Context, actor domain.Actor, cycleID int64) (*domain.Cycle, error) {
	cycle, err := s.cycleRepo.FindCycleByID(ctx, cycleID)
	if err != nil {
		return nil, passThrough(err, "failed to get cycle")
	}
	return cycle, nil
}

func (s *cycleService) ListCycles(ctx context.Context, actor domain.Actor, params dto.ListCyclesParams) ([]domain.Cycle, error) {
	filter := domain.CycleFilter{
		Status:         domain.CycleStatus(params.Status),
		OrganizationID: params.OrganizationID,
		Limit:          pagination.ClampLimit(params.Limit),
		Offset:         max(params.Offset, 0),
	}
	if params.Phase != "" {
		phase, ok := domain.ParsePhase(params.Phase)
		if !ok {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown phase %q", params.Phase))
		}
		filter.Phase = phase
	}

	cycles, err := s.cycleRepo.ListCycles(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cycles")
		return nil, passThrough(err, "failed to list cycles")
	}
	return cycles, nil
}

// IsReadyForSharing reports whether the cycle's end date has been reached.
func (s *cycleService) IsReadyForSharing(ctx context.Context, actor domain.Actor, cycleID int64) (bool, error) {
	cycle, err := s.cycleRepo.FindCycleByID(ctx, cycleID)
	if err != nil {
		return false, passThrough(err, "failed to get cycle")
	}
	return cycle.IsReadyForSharing(s.Now()), nil
}

func (s *cycleService) CreateCycle(ctx context.Context, actor domain.Actor, req dto.CreateCycleRequest) (*domain.Cycle, error) {
	if err := policy.Authorize(policy.CycleCreate, actor, nil); err != nil {
		return nil, err
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, apperrors.NewValidationFailedError("end date cannot be before start date")
	}

	now := s.Now()
	cycle := domain.Cycle{
		OrganizationID:   req.OrganizationID,
		Name:             req.Name,
		Description:      req.Description,
		Phase:            domain.PhasePreparation,
		Status:           domain.CycleActive,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		TargetAmount:     req.TargetAmount,
		CurrentAmount:    decimal.Zero,
		InterestRate:     req.InterestRate,
		MeetingFrequency: req.MeetingFrequency,
		MeetingDay:       req.MeetingDay,
		CycleYear:        req.CycleYear,
		AuditFields:      domain.NewAuditFields(actor.UserID, now),
	}
	if cycle.MeetingFrequency == "" {
		cycle.MeetingFrequency = defaultMeetingFrequency
	}
	if cycle.CycleYear == 0 {
		cycle.CycleYear = 1
	}

	tx, err := s.cycleRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.cycleRepo.Rollback(ctx, tx)

	created, err := s.cycleRepo.SaveCycle(ctx, tx, cycle)
	if err != nil {
		s.LogError(ctx, err, "Failed to save cycle", slog.String("name", req.Name))
		return nil, passThrough(err, "failed to create cycle")
	}
	if err := s.cycleRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit cycle creation: %w", err)
	}

	s.LogInfo(ctx, "Cycle created", slog.Int64("cycle_id", created.CycleID))
	return created, nil
}

func (s *cycleService) UpdateCycle(ctx context.Context, actor domain.Actor, cycleID int64, req dto.UpdateCycleRequest) (*domain.Cycle, error) {
	tx, err := s.cycleRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.cycleRepo.Rollback(ctx, tx)

	cycle, err := s.cycleRepo.FindCycleByIDForUpdate(ctx, tx, cycleID)
	if err != nil {
		return nil, passThrough(err, "failed to load cycle")
	}
	if err := policy.Authorize(policy.CycleEdit, actor, policy.ForCycle(actor, cycle)); err != nil {
		return nil, err
	}

	applyCycleUpdate(cycle, req)
	if cycle.EndDate != nil && cycle.EndDate.Before(cycle.StartDate) {
		return nil, apperrors.NewValidationFailedError("end date cannot be before start date")
	}
	cycle.Touch(actor.UserID, s.Now())

	if err := s.cycleRepo.UpdateCycle(ctx, tx, *cycle); err != nil {
		s.LogError(ctx, err, "Failed to update cycle", slog.Int64("cycle_id", cycleID))
		return nil, passThrough(err, "failed to update cycle")
	}
	if err := s.cycleRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit cycle update: %w", err)
	}
	cycle.Version++
	return cycle, nil
}

// applyCycleUpdate copies the provided fields. Phase and completion only move through AdvancePhase and sharing.
func applyCycleUpdate(cycle *domain.Cycle, req dto.UpdateCycleRequest) {
	if req.Name != nil {
		cycle.Name = *req.Name
	}
	if req.Description != nil {
		cycle.Description = *req.Description
	}
	if req.Status != nil {
		cycle.Status = domain.CycleStatus(*req.Status)
	}
	if req.StartDate != nil {
		cycle.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		cycle.EndDate = req.EndDate
	}
	if req.TargetAmount != nil {
		cycle.TargetAmount = *req.TargetAmount
	}
	if req.CurrentAmount != nil {
		cycle.CurrentAmount = *req.CurrentAmount
	}
	if req.InterestRate != nil {
		cycle.InterestRate = *req.InterestRate
	}
	if req.MeetingFrequency != nil {
		cycle.MeetingFrequency = *req.MeetingFrequency
	}
	if req.MeetingDay != nil {
		cycle.MeetingDay = *req.MeetingDay
	}
}

// DeleteCycle fails with a conflict while any of its groups is active.
func (s *cycleService) DeleteCycle(ctx context.Context, actor domain.Actor, cycleID int64) error {
	tx, err := s.cycleRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.cycleRepo.Rollback(ctx, tx)

	cycle, err := s.cycleRepo.FindCycleByIDForUpdate(ctx, tx, cycleID)
	if err != nil {
		return passThrough(err, "failed to load cycle")
	}
	if err := policy.Authorize(policy.CycleDelete, actor, policy.ForCycle(actor, cycle)); err != nil {
		return err
	}

	active, err := s.cycleRepo.CountActiveGroups(ctx, tx, cycleID)
	if err != nil {
		return passThrough(err, "failed to count active groups")
	}
	if active > 0 {
		return apperrors.NewConflictError(fmt.Sprintf("cycle %d still has %d active group(s)", cycleID, active))
	}

	if err := s.cycleRepo.DeleteCycle(ctx, tx, cycleID); err != nil {
		s.LogError(ctx, err, "Failed to delete cycle", slog.Int64("cycle_id", cycleID))
		return passThrough(err, "failed to delete cycle")
	}
	if err := s.cycleRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit cycle deletion: %w", err)
	}
	s.LogInfo(ctx, "Cycle deleted", slog.Int64("cycle_id", cycleID))
	return nil
}

// AdvancePhase moves the cycle one phase forward.
func (s *cycleService) AdvancePhase(ctx context.Context, actor domain.Actor, cycleID int64) (*domain.Cycle, error) {
	tx, err := s.cycleRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.cycleRepo.Rollback(ctx, tx)

	cycle, err := s.cycleRepo.FindCycleByIDForUpdate(ctx, tx, cycleID)
	if err != nil {
		return nil, passThrough(err, "failed to load cycle")
	}
	if err := policy.Authorize(policy.CycleAdvancePhase, actor, policy.ForCycle(actor, cycle)); err != nil {
		return nil, err
	}

	from := cycle.Phase
	if err := cycle.AdvancePhase(actor.UserID, s.Now()); err != nil {
		return nil, err
	}
	if err := s.cycleRepo.UpdateCycle(ctx, tx, *cycle); err != nil {
		return nil, passThrough(err, "failed to update cycle phase")
	}
	payload := map[string]any{"cycleID": cycle.CycleID, "from": from, "to": cycle.Phase}
	if err := s.RecordEvent(ctx, tx, aggregateCycle, cycle.CycleID, domain.EventCyclePhaseAdvanced, payload); err != nil {
		return nil, err
	}
	if err := s.cycleRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit phase change: %w", err)
	}
	cycle.Version++

	s.LogInfo(ctx, "Cycle phase advanced",
		slog.Int64("cycle_id", cycleID),
		slog.String("from", string(from)),
		slog.String("to", string(cycle.Phase)))
	return cycle, nil
}
