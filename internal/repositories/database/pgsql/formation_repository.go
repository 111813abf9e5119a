package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxFormationRepository struct {
	BaseRepository
}

func newPgxFormationRepository(db *pgxpool.Pool) portsrepo.FormationRepositoryFacade {
	return &PgxFormationRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.FormationRepositoryFacade = (*PgxFormationRepository)(nil)

const moduleColumns = `module_id, group_id, name, description, content, position, is_completed,
	completed_at, completed_by, created_at, created_by, last_updated_at, last_updated_by`

func scanModule(row pgx.Row) (*domain.FormationModule, error) {
	var m domain.FormationModule
	err := row.Scan(
		&m.ModuleID,
		&m.GroupID,
		&m.Name,
		&m.Description,
		&m.Content,
		&m.Position,
		&m.IsCompleted,
		&m.CompletedAt,
		&m.CompletedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxFormationRepository) SaveModule(ctx context.Context, module domain.FormationModule) (*domain.FormationModule, error) {
	// Two appends racing for the same position fail on UNIQUE (group_id, position).
	query := `
		INSERT INTO formation_modules (group_id, name, description, content, position,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4,
			COALESCE(NULLIF($5::INT, 0), (SELECT COALESCE(MAX(position), 0) + 1 FROM formation_modules WHERE group_id = $1)),
			$6, $7, $8, $9)
		RETURNING ` + moduleColumns
	saved, err := scanModule(r.Pool.QueryRow(ctx, query,
		module.GroupID,
		module.Name,
		module.Description,
		module.Content,
		module.Position,
		module.CreatedAt,
		module.CreatedBy,
		module.LastUpdatedAt,
		module.LastUpdatedBy,
	))
	if err != nil {
		return nil, mapPgError(err, "failed to save formation module")
	}
	return saved, nil
}

func (r *PgxFormationRepository) FindModuleByID(ctx context.Context, moduleID int64) (*domain.FormationModule, error) {
	query := `SELECT ` + moduleColumns + ` FROM formation_modules WHERE module_id = $1`
	m, err := scanModule(r.Pool.QueryRow(ctx, query, moduleID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("formation module %d not found", moduleID))
	}
	return m, nil
}

func (r *PgxFormationRepository) ListModules(ctx context.Context, groupID int64) ([]domain.FormationModule, error) {
	query := `SELECT ` + moduleColumns + ` FROM formation_modules WHERE group_id = $1 ORDER BY position ASC`
	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query formation modules: %w", err)
	}
	defer rows.Close()

	modules := []domain.FormationModule{}
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan formation module row: %w", err)
		}
		modules = append(modules, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating formation module rows: %w", err)
	}
	return modules, nil
}

func (r *PgxFormationRepository) MarkModuleCompleted(ctx context.Context, module domain.FormationModule) error {
	query := `
		UPDATE formation_modules SET
			is_completed = TRUE, completed_at = $1, completed_by = $2,
			last_updated_at = $3, last_updated_by = $4
		WHERE module_id = $5 AND NOT is_completed`
	tag, err := r.Pool.Exec(ctx, query,
		module.CompletedAt,
		module.CompletedBy,
		module.LastUpdatedAt,
		module.LastUpdatedBy,
		module.ModuleID,
	)
	if err != nil {
		return mapPgError(err, "failed to complete formation module")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewConflictError(fmt.Sprintf("formation module %d was completed concurrently", module.ModuleID))
	}
	return nil
}
