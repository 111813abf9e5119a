package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/core/policy"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/utils/accounting"
	"github.com/SscSPs/avec_backend/pkg/metrics"
	"github.com/jackc/pgx/v5"
)

// Sharing outcomes reported to metrics.
const (
	sharingExecuted      = "executed"
	sharingAlreadyShared = "already_shared"
	sharingNotReady      = "not_ready"
	sharingLocked        = "locked"
	sharingError         = "error"
)

// sharingService distributes a group's capital to its shareholders at the end of a cycle.
type sharingService struct {
	BaseService
	groupRepo portsrepo.GroupRepositoryWithTx
	cycleRepo portsrepo.CycleRepositoryWithTx
	txnRepo   portsrepo.TransactionRepositoryWithTx
	locker    portssvc.ExecutionLocker
}

// SharingServiceOption is a functional option for configuring the sharing service
type SharingServiceOption func(*sharingService)

// WithSharingLock serialises executions for the same group across API instances.
// The group row lock and shared_at guard stay authoritative without it.
func WithSharingLock(locker portssvc.ExecutionLocker) SharingServiceOption {
	return func(s *sharingService) {
		s.locker = locker
	}
}

// WithSharingBase applies the common service options.
func WithSharingBase(options ...BaseOption) SharingServiceOption {
	return func(s *sharingService) {
		for _, option := range options {
			option(&s.BaseService)
		}
	}
}

// NewSharingService creates a new sharing service with the provided options
func NewSharingService(groupRepo portsrepo.GroupRepositoryWithTx, cycleRepo portsrepo.CycleRepositoryWithTx, txnRepo portsrepo.TransactionRepositoryWithTx, options ...SharingServiceOption) portssvc.SharingSvcFacade {
	svc := &sharingService{
		BaseService: newBaseService(),
		groupRepo:   groupRepo,
		cycleRepo:   cycleRepo,
		txnRepo:     txnRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SharingSvcFacade = (*sharingService)(nil)

// plan computes the payouts of group from its completed share purchases.
func (s *sharingService) plan(ctx context.Context, tx pgx.Tx, group *domain.Group, cycle *domain.Cycle, now time.Time) (*domain.SharingPlan, error) {
	shares, err := memberShares(ctx, s.txnRepo, tx, group)
	if err != nil {
		return nil, err
	}
	totalCapital := group.TotalCapital()
	return &domain.SharingPlan{
		GroupID:      group.GroupID,
		CycleID:      cycle.CycleID,
		TotalCapital: totalCapital,
		TotalShares:  accounting.TotalShares(shares),
		Payouts:      accounting.AllocatePayouts(totalCapital, shares),
		Ready:        cycle.IsReadyForSharing(now),
		Executed:     group.IsShared(),
		ExecutedAt:   group.SharedAt,
	}, nil
}

// authorizedGroup loads the group and its cycle and checks action against the actor.
func (s *sharingService) authorizedGroup(ctx context.Context, actor domain.Actor, action policy.Action, groupID int64) (*domain.Group, *domain.Cycle, error) {
	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, nil, passThrough(err, "failed to get group")
	}
	member, err := isMember(ctx, s.groupRepo, nil, groupID, actor.UserID)
	if err != nil {
		return nil, nil, err
	}
	if err := policy.Authorize(action, actor, policy.ForGroup(actor, group, member)); err != nil {
		return nil, nil, err
	}
	cycle, err := s.cycleRepo.FindCycleByID(ctx, group.CycleID)
	if err != nil {
		return nil, nil, passThrough(err, "failed to get group cycle")
	}
	return group, cycle, nil
}

// PreviewSharing computes the distribution without writing anything.
func (s *sharingService) PreviewSharing(ctx context.Context, actor domain.Actor, groupID int64) (*domain.SharingPlan, error) {
	group, cycle, err := s.authorizedGroup(ctx, actor, policy.SharingPreview, groupID)
	if err != nil {
		return nil, err
	}
	plan, err := s.plan(ctx, nil, group, cycle, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to compute sharing preview", slog.Int64("group_id", groupID))
		return nil, err
	}
	return plan, nil
}

// ExecuteSharing writes one completed profit_sharing entry per member with a
// non-zero payout, then closes the group and its cycle. A group is shared at
// most once: a second call fails with a conflict and writes nothing.
func (s *sharingService) ExecuteSharing(ctx context.Context, actor domain.Actor, groupID int64) (*domain.SharingPlan, error) {
	group, cycle, err := s.authorizedGroup(ctx, actor, policy.SharingExecute, groupID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	if !cycle.IsReadyForSharing(now) {
		metrics.RecordSharing(sharingNotReady)
		return nil, apperrors.Wrap(apperrors.ErrCycleNotReady, fmt.Sprintf("cycle %d has not reached its end date", cycle.CycleID))
	}
	if group.IsShared() {
		metrics.RecordSharing(sharingAlreadyShared)
		return nil, alreadySharedError(groupID)
	}

	if s.locker != nil {
		if !s.locker.Acquire(ctx, groupID) {
			metrics.RecordSharing(sharingLocked)
			return nil, apperrors.NewConflictError(fmt.Sprintf("profit-sharing for group %d is already running", groupID))
		}
		defer s.locker.Release(ctx, groupID)
	}

	plan, err := s.execute(ctx, actor, groupID, now)
	if err != nil {
		if errors.Is(err, errGroupShared) {
			metrics.RecordSharing(sharingAlreadyShared)
		} else {
			metrics.RecordSharing(sharingError)
		}
		s.LogError(ctx, err, "Profit-sharing failed", slog.Int64("group_id", groupID))
		return nil, err
	}

	metrics.RecordSharing(sharingExecuted)
	for range plan.Payouts {
		metrics.RecordLedger(string(domain.ProfitSharing), string(domain.StatusCompleted))
	}
	s.LogInfo(ctx, "Profit-sharing executed",
		slog.Int64("group_id", groupID),
		slog.Int64("cycle_id", plan.CycleID),
		slog.String("total_capital", plan.TotalCapital.String()),
		slog.String("total_paid", plan.TotalPaid().String()),
		slog.Int("payouts", len(plan.Payouts)))
	return plan, nil
}

var errGroupShared = apperrors.NewConflictError("group has already shared out its capital")

func alreadySharedError(groupID int64) error {
	return fmt.Errorf("group %d: %w", groupID, errGroupShared)
}

// execute is the locked unit of work of ExecuteSharing.
func (s *sharingService) execute(ctx context.Context, actor domain.Actor, groupID int64, now time.Time) (*domain.SharingPlan, error) {
	tx, err := s.groupRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.groupRepo.Rollback(ctx, tx)

	group, err := s.groupRepo.FindGroupByIDForUpdate(ctx, tx, groupID)
	if err != nil {
		return nil, passThrough(err, "failed to lock group")
	}
	if group.IsShared() {
		return nil, alreadySharedError(groupID)
	}
	cycle, err := s.cycleRepo.FindCycleByIDForUpdate(ctx, tx, group.CycleID)
	if err != nil {
		return nil, passThrough(err, "failed to lock cycle")
	}
	if !cycle.IsReadyForSharing(now) {
		return nil, apperrors.Wrap(apperrors.ErrCycleNotReady, fmt.Sprintf("cycle %d has not reached its end date", cycle.CycleID))
	}

	plan, err := s.plan(ctx, tx, group, cycle, now)
	if err != nil {
		return nil, err
	}

	paid := make([]domain.Payout, 0, len(plan.Payouts))
	for _, payout := range plan.Payouts {
		if !payout.Amount.IsPositive() {
			continue
		}
		approver := actor.UserID
		entry := domain.Transaction{
			GroupID:     group.GroupID,
			UserID:      payout.UserID,
			Type:        domain.ProfitSharing,
			Amount:      payout.Amount,
			Status:      domain.StatusCompleted,
			Description: fmt.Sprintf("Profit-sharing of cycle %d: %s share(s)", cycle.CycleID, payout.Shares.String()),
			ApprovedBy:  &approver,
			ApprovedAt:  &now,
			CompletedAt: &now,
			AuditFields: domain.NewAuditFields(actor.UserID, now),
		}
		saved, err := s.txnRepo.SaveTransaction(ctx, tx, entry)
		if err != nil {
			return nil, passThrough(err, "failed to record payout")
		}
		id := saved.TransactionID
		payout.TransactionID = &id
		paid = append(paid, payout)
	}
	plan.Payouts = paid

	group.Status = domain.GroupCompleted
	group.SharedAt = &now
	group.Touch(actor.UserID, now)
	if err := s.groupRepo.UpdateGroup(ctx, tx, *group); err != nil {
		return nil, passThrough(err, "failed to close group")
	}
	cycle.MarkShared(actor.UserID, now)
	if err := s.cycleRepo.UpdateCycle(ctx, tx, *cycle); err != nil {
		return nil, passThrough(err, "failed to close cycle")
	}

	plan.Executed = true
	plan.ExecutedAt = &now
	if err := s.RecordEvent(ctx, tx, aggregateGroup, group.GroupID, domain.EventSharingExecuted, plan); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit profit-sharing: %w", err)
	}
	return plan, nil
}
