package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCycleRepository struct {
	BaseRepository
}

func newPgxCycleRepository(db *pgxpool.Pool) portsrepo.CycleRepositoryWithTx {
	return &PgxCycleRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.CycleRepositoryWithTx = (*PgxCycleRepository)(nil)

const cycleColumns = `cycle_id, organization_id, name, description, phase, status, start_date, end_date,
	target_amount, current_amount, interest_rate, meeting_frequency, meeting_day, cycle_year,
	is_completed, profit_sharing_date, version, created_at, created_by, last_updated_at, last_updated_by`

func scanCycle(row pgx.Row) (*domain.Cycle, error) {
	var c domain.Cycle
	var phase, status string
	err := row.Scan(
		&c.CycleID,
		&c.OrganizationID,
		&c.Name,
		&c.Description,
		&phase,
		&status,
		&c.StartDate,
		&c.EndDate,
		&c.TargetAmount,
		&c.CurrentAmount,
		&c.InterestRate,
		&c.MeetingFrequency,
		&c.MeetingDay,
		&c.CycleYear,
		&c.IsCompleted,
		&c.ProfitSharingDate,
		&c.Version,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	c.Phase = domain.CyclePhase(phase)
	c.Status = domain.CycleStatus(status)
	return &c, nil
}

func collectCycles(rows pgx.Rows) ([]domain.Cycle, error) {
	defer rows.Close()
	cycles := []domain.Cycle{}
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cycle row: %w", err)
		}
		cycles = append(cycles, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cycle rows: %w", err)
	}
	return cycles, nil
}

func (r *PgxCycleRepository) FindCycleByID(ctx context.Context, cycleID int64) (*domain.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles WHERE cycle_id = $1`
	c, err := scanCycle(r.Pool.QueryRow(ctx, query, cycleID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("cycle %d not found", cycleID))
	}
	return c, nil
}

func (r *PgxCycleRepository) FindCycleByIDForUpdate(ctx context.Context, tx pgx.Tx, cycleID int64) (*domain.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles WHERE cycle_id = $1 FOR UPDATE`
	c, err := scanCycle(r.db(tx).QueryRow(ctx, query, cycleID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("cycle %d not found", cycleID))
	}
	return c, nil
}

func (r *PgxCycleRepository) ListCycles(ctx context.Context, filter domain.CycleFilter) ([]domain.Cycle, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Phase != "" {
		args = append(args, string(filter.Phase))
		conds = append(conds, fmt.Sprintf("phase = $%d", len(args)))
	}
	if filter.OrganizationID != nil {
		args = append(args, *filter.OrganizationID)
		conds = append(conds, fmt.Sprintf("organization_id = $%d", len(args)))
	}

	query := `SELECT ` + cycleColumns + ` FROM cycles`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, cycle_id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cycles: %w", err)
	}
	return collectCycles(rows)
}

func (r *PgxCycleRepository) ListCyclesEndingBetween(ctx context.Context, from, to time.Time) ([]domain.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles
		WHERE status = 'active' AND NOT is_completed AND end_date BETWEEN $1 AND $2
		ORDER BY end_date ASC`
	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query cycles ending soon: %w", err)
	}
	return collectCycles(rows)
}

func (r *PgxCycleRepository) SaveCycle(ctx context.Context, tx pgx.Tx, cycle domain.Cycle) (*domain.Cycle, error) {
	query := `
		INSERT INTO cycles (organization_id, name, description, phase, status, start_date, end_date,
			target_amount, current_amount, interest_rate, meeting_frequency, meeting_day, cycle_year,
			is_completed, profit_sharing_date, version, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 0, $16, $17, $18, $19)
		RETURNING ` + cycleColumns
	saved, err := scanCycle(r.db(tx).QueryRow(ctx, query,
		cycle.OrganizationID,
		cycle.Name,
		cycle.Description,
		string(cycle.Phase),
		string(cycle.Status),
		cycle.StartDate,
		cycle.EndDate,
		cycle.TargetAmount,
		cycle.CurrentAmount,
		cycle.InterestRate,
		cycle.MeetingFrequency,
		cycle.MeetingDay,
		cycle.CycleYear,
		cycle.IsCompleted,
		cycle.ProfitSharingDate,
		cycle.CreatedAt,
		cycle.CreatedBy,
		cycle.LastUpdatedAt,
		cycle.LastUpdatedBy,
	))
	if err != nil {
		return nil, mapPgError(err, "failed to save cycle")
	}
	return saved, nil
}

func (r *PgxCycleRepository) UpdateCycle(ctx context.Context, tx pgx.Tx, cycle domain.Cycle) error {
	query := `
		UPDATE cycles SET
			organization_id = $1, name = $2, description = $3, phase = $4, status = $5,
			start_date = $6, end_date = $7, target_amount = $8, current_amount = $9,
			interest_rate = $10, meeting_frequency = $11, meeting_day = $12, cycle_year = $13,
			is_completed = $14, profit_sharing_date = $15,
			last_updated_at = $16, last_updated_by = $17, version = version + 1
		WHERE cycle_id = $18 AND version = $19`
	tag, err := r.db(tx).Exec(ctx, query,
		cycle.OrganizationID,
		cycle.Name,
		cycle.Description,
		string(cycle.Phase),
		string(cycle.Status),
		cycle.StartDate,
		cycle.EndDate,
		cycle.TargetAmount,
		cycle.CurrentAmount,
		cycle.InterestRate,
		cycle.MeetingFrequency,
		cycle.MeetingDay,
		cycle.CycleYear,
		cycle.IsCompleted,
		cycle.ProfitSharingDate,
		cycle.LastUpdatedAt,
		cycle.LastUpdatedBy,
		cycle.CycleID,
		cycle.Version,
	)
	if err != nil {
		return mapPgError(err, "failed to update cycle")
	}
	if tag.RowsAffected() == 0 {
		return staleWrite("cycle", cycle.CycleID)
	}
	return nil
}

func (r *PgxCycleRepository) DeleteCycle(ctx context.Context, tx pgx.Tx, cycleID int64) error {
	tag, err := r.db(tx).Exec(ctx, `DELETE FROM cycles WHERE cycle_id = $1`, cycleID)
	if err != nil {
		return mapPgError(err, "failed to delete cycle")
	}
	if tag.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, fmt.Sprintf("cycle %d not found", cycleID))
	}
	return nil
}

func (r *PgxCycleRepository) CountActiveGroups(ctx context.Context, tx pgx.Tx, cycleID int64) (int, error) {
	var n int
	err := r.db(tx).QueryRow(ctx, `SELECT COUNT(*) FROM savings_groups WHERE cycle_id = $1 AND status = 'active'`, cycleID).Scan(&n)
	if err != nil {
		return 0, mapPgError(err, "failed to count active groups")
	}
	return n, nil
}
