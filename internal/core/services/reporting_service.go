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
	"github.com/SscSPs/avec_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const (
	defaultAlertWindow = 7 * 24 * time.Hour
	maxOverdueAlerts   = 100
)

// reportingService implements the ReportingSvcFacade interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepositoryFacade
	groupRepo     portsrepo.GroupRepositoryWithTx
	cycleRepo     portsrepo.CycleReader
	txnRepo       portsrepo.TransactionReader
	alertWindow   time.Duration
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithAlertWindow sets how far ahead cycle end dates raise an alert.
func WithAlertWindow(window time.Duration) ReportingServiceOption {
	return func(s *reportingService) {
		if window > 0 {
			s.alertWindow = window
		}
	}
}

// WithReportingBase applies the common service options.
func WithReportingBase(options ...BaseOption) ReportingServiceOption {
	return func(s *reportingService) {
		for _, option := range options {
			option(&s.BaseService)
		}
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(
	reportingRepo portsrepo.ReportingRepositoryFacade,
	groupRepo portsrepo.GroupRepositoryWithTx,
	cycleRepo portsrepo.CycleReader,
	txnRepo portsrepo.TransactionReader,
	options ...ReportingServiceOption,
) portssvc.ReportingSvcFacade {
	svc := &reportingService{
		BaseService:   newBaseService(),
		reportingRepo: reportingRepo,
		groupRepo:     groupRepo,
		cycleRepo:     cycleRepo,
		txnRepo:       txnRepo,
		alertWindow:   defaultAlertWindow,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetMemberAccountBook summarises one member's entries in a group.
func (s *reportingService) GetMemberAccountBook(ctx context.Context, actor domain.Actor, groupID, userID int64) (*domain.MemberAccountBook, error) {
	group, subject, err := groupSubject(ctx, s.groupRepo, actor, groupID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.ReportAccountBook, actor, subject.WithSelf(actor, userID)); err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.ListMemberTransactions(ctx, groupID, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load member transactions",
			slog.Int64("group_id", groupID),
			slog.Int64("user_id", userID))
		return nil, passThrough(err, "failed to build account book")
	}
	book := accounting.AccountBook(groupID, userID, group.ShareValue, txns)
	return &book, nil
}

// GetSupervisionDashboard returns group and member counts per phase and the overall totals.
func (s *reportingService) GetSupervisionDashboard(ctx context.Context, actor domain.Actor) (*domain.SupervisionDashboard, error) {
	if err := policy.Authorize(policy.ReportSupervision, actor, nil); err != nil {
		return nil, err
	}

	byPhase, err := s.reportingRepo.CountByPhase(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to count groups by phase")
		return nil, passThrough(err, "failed to build supervision dashboard")
	}
	dashboard, err := s.reportingRepo.SumGroupTotals(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum group totals")
		return nil, passThrough(err, "failed to build supervision dashboard")
	}
	dashboard.ByPhase = byPhase
	return dashboard, nil
}

// GetTransactionStats aggregates approved and completed entries over the period.
func (s *reportingService) GetTransactionStats(ctx context.Context, actor domain.Actor, period domain.StatsPeriod, groupID *int64) (*domain.TransactionStats, error) {
	if err := policy.Authorize(policy.ReportSupervision, actor, nil); err != nil {
		return nil, err
	}
	since, ok := period.Since(s.Now())
	if !ok {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown period %q", period))
	}

	byType, err := s.reportingRepo.SumTransactionsByType(ctx, since, groupID)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate transactions", slog.String("period", string(period)))
		return nil, passThrough(err, "failed to build transaction stats")
	}

	stats := &domain.TransactionStats{
		Period:      period,
		Since:       since,
		GroupID:     groupID,
		TotalAmount: decimal.Zero,
		ByType:      byType,
	}
	for _, t := range byType {
		stats.Count += t.Count
		stats.TotalAmount = stats.TotalAmount.Add(t.Amount)
	}
	stats.AverageAmount = accounting.Average(stats.TotalAmount, stats.Count)
	return stats, nil
}

// GetAlerts lists active cycles ending soon and pending entries past their due date.
func (s *reportingService) GetAlerts(ctx context.Context, actor domain.Actor) (*domain.Alerts, error) {
	if err := policy.Authorize(policy.ReportSupervision, actor, nil); err != nil {
		return nil, err
	}
	now := s.Now()

	cycles, err := s.cycleRepo.ListCyclesEndingBetween(ctx, now, now.Add(s.alertWindow))
	if err != nil {
		return nil, passThrough(err, "failed to list cycles ending soon")
	}
	ending := make([]domain.Cycle, 0, len(cycles))
	for _, c := range cycles {
		if c.EndsWithin(now, s.alertWindow) {
			ending = append(ending, c)
		}
	}

	overdue, err := s.txnRepo.ListOverdueTransactions(ctx, now, maxOverdueAlerts)
	if err != nil {
		return nil, passThrough(err, "failed to list overdue transactions")
	}
	if overdue == nil {
		overdue = []domain.Transaction{}
	}
	return &domain.Alerts{CyclesEndingSoon: ending, OverdueTransactions: overdue}, nil
}
