package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepositoryFacade interface
type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepositoryFacade = (*reportingRepository)(nil)

// CountByPhase counts groups and their members per phase of the owning cycle.
func (r *reportingRepository) CountByPhase(ctx context.Context) ([]domain.PhaseCount, error) {
	query := `
		SELECT c.phase, COUNT(g.group_id), COALESCE(SUM(g.current_members), 0)
		FROM cycles c
		LEFT JOIN savings_groups g ON g.cycle_id = c.cycle_id
		GROUP BY c.phase
		ORDER BY CASE c.phase
			WHEN 'preparation' THEN 1
			WHEN 'formation' THEN 2
			WHEN 'supervision' THEN 3
			ELSE 4 END`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying phase counts: %w", err)
	}
	defer rows.Close()

	result := []domain.PhaseCount{}
	for rows.Next() {
		var row domain.PhaseCount
		var phase string
		if err := rows.Scan(&phase, &row.Groups, &row.Members); err != nil {
			return nil, fmt.Errorf("error scanning phase count row: %w", err)
		}
		row.Phase = domain.CyclePhase(phase)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating phase count rows: %w", err)
	}
	return result, nil
}

func (r *reportingRepository) SumGroupTotals(ctx context.Context) (*domain.SupervisionDashboard, error) {
	query := `
		SELECT COUNT(*),
			COALESCE(SUM(current_members), 0),
			COALESCE(SUM(total_savings), 0),
			COALESCE(SUM(total_loans), 0),
			COALESCE(SUM(solidarity_fund), 0)
		FROM savings_groups`

	var d domain.SupervisionDashboard
	err := r.Pool.QueryRow(ctx, query).Scan(
		&d.TotalGroups,
		&d.TotalMembers,
		&d.TotalSavings,
		&d.TotalLoans,
		&d.TotalSolidarityFund,
	)
	if err != nil {
		return nil, fmt.Errorf("error summing group totals: %w", err)
	}
	return &d, nil
}

func (r *reportingRepository) SumTransactionsByType(ctx context.Context, since time.Time, groupID *int64) ([]domain.TypeTotal, error) {
	query := `
		SELECT type, COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE created_at >= $1
			AND status IN ('approved', 'completed')
			AND ($2::BIGINT IS NULL OR group_id = $2)
		GROUP BY type
		ORDER BY type`

	rows, err := r.Pool.Query(ctx, query, since, groupID)
	if err != nil {
		return nil, fmt.Errorf("error querying transaction totals: %w", err)
	}
	defer rows.Close()

	result := []domain.TypeTotal{}
	for rows.Next() {
		var row domain.TypeTotal
		var txnType string
		if err := rows.Scan(&txnType, &row.Count, &row.Amount); err != nil {
			return nil, fmt.Errorf("error scanning transaction total row: %w", err)
		}
		row.Type = domain.TransactionType(txnType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction total rows: %w", err)
	}
	return result, nil
}
