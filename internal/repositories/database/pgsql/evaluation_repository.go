package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEvaluationRepository struct {
	BaseRepository
}

func newPgxEvaluationRepository(db *pgxpool.Pool) portsrepo.EvaluationRepositoryFacade {
	return &PgxEvaluationRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.EvaluationRepositoryFacade = (*PgxEvaluationRepository)(nil)

const evaluationColumns = `evaluation_id, cycle_id, village_name, population, main_activities, existing_groups,
	needs_assessment, community_interest, evaluation_date, evaluated_by`

func scanEvaluation(row pgx.Row) (*domain.CommunityEvaluation, error) {
	var e domain.CommunityEvaluation
	err := row.Scan(
		&e.EvaluationID,
		&e.CycleID,
		&e.VillageName,
		&e.Population,
		&e.MainActivities,
		&e.ExistingGroups,
		&e.NeedsAssessment,
		&e.CommunityInterest,
		&e.EvaluationDate,
		&e.EvaluatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PgxEvaluationRepository) SaveEvaluation(ctx context.Context, evaluation domain.CommunityEvaluation) (*domain.CommunityEvaluation, error) {
	query := `
		INSERT INTO community_evaluations (cycle_id, village_name, population, main_activities, existing_groups,
			needs_assessment, community_interest, evaluation_date, evaluated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + evaluationColumns
	saved, err := scanEvaluation(r.Pool.QueryRow(ctx, query,
		evaluation.CycleID,
		evaluation.VillageName,
		evaluation.Population,
		evaluation.MainActivities,
		evaluation.ExistingGroups,
		evaluation.NeedsAssessment,
		evaluation.CommunityInterest,
		evaluation.EvaluationDate,
		evaluation.EvaluatedBy,
	))
	if err != nil {
		return nil, mapPgError(err, "failed to save community evaluation")
	}
	return saved, nil
}

func (r *PgxEvaluationRepository) FindEvaluationByID(ctx context.Context, evaluationID int64) (*domain.CommunityEvaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM community_evaluations WHERE evaluation_id = $1`
	e, err := scanEvaluation(r.Pool.QueryRow(ctx, query, evaluationID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("community evaluation %d not found", evaluationID))
	}
	return e, nil
}

func (r *PgxEvaluationRepository) ListEvaluations(ctx context.Context, filter domain.EvaluationFilter) ([]domain.CommunityEvaluation, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Village != "" {
		args = append(args, strings.ToLower(filter.Village))
		conds = append(conds, fmt.Sprintf("LOWER(village_name) = $%d", len(args)))
	}
	if filter.CycleID != nil {
		args = append(args, *filter.CycleID)
		conds = append(conds, fmt.Sprintf("cycle_id = $%d", len(args)))
	}

	query := `SELECT ` + evaluationColumns + ` FROM community_evaluations`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY evaluation_date DESC, evaluation_id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query community evaluations: %w", err)
	}
	defer rows.Close()

	evaluations := []domain.CommunityEvaluation{}
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan community evaluation row: %w", err)
		}
		evaluations = append(evaluations, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating community evaluation rows: %w", err)
	}
	return evaluations, nil
}
