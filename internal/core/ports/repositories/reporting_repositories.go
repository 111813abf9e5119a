package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
)

// ReportingRepositoryFacade defines aggregate queries for reports
type ReportingRepositoryFacade interface {
	// CountByPhase returns group and member counts per cycle phase.
	CountByPhase(ctx context.Context) ([]domain.PhaseCount, error)

	// SumGroupTotals returns the savings, loans and solidarity totals over all groups.
	SumGroupTotals(ctx context.Context) (*domain.SupervisionDashboard, error)

	// SumTransactionsByType aggregates completed and approved entries created since the given time.
	SumTransactionsByType(ctx context.Context, since time.Time, groupID *int64) ([]domain.TypeTotal, error)
}
