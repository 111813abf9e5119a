package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CycleReader defines read operations for cycles
type CycleReader interface {
	// FindCycleByID retrieves a cycle by its ID.
	FindCycleByID(ctx context.Context, cycleID int64) (*domain.Cycle, error)

	// ListCycles retrieves cycles matching the filter, newest first.
	ListCycles(ctx context.Context, filter domain.CycleFilter) ([]domain.Cycle, error)

	// ListCyclesEndingBetween retrieves active, uncompleted cycles whose end date falls in [from, to].
	ListCyclesEndingBetween(ctx context.Context, from, to time.Time) ([]domain.Cycle, error)
}

// CycleWriter defines write operations for cycles. All run inside the caller's transaction.
type CycleWriter interface {
	// SaveCycle inserts a cycle and returns it with its generated ID.
	SaveCycle(ctx context.Context, tx pgx.Tx, cycle domain.Cycle) (*domain.Cycle, error)

	// FindCycleByIDForUpdate reads and row-locks a cycle.
	FindCycleByIDForUpdate(ctx context.Context, tx pgx.Tx, cycleID int64) (*domain.Cycle, error)

	// UpdateCycle writes the cycle if its version still matches, bumping the version.
	UpdateCycle(ctx context.Context, tx pgx.Tx, cycle domain.Cycle) error

	// DeleteCycle removes the cycle.
	DeleteCycle(ctx context.Context, tx pgx.Tx, cycleID int64) error

	// CountActiveGroups counts the cycle's groups in the active status.
	CountActiveGroups(ctx context.Context, tx pgx.Tx, cycleID int64) (int, error)
}

// CycleRepositoryWithTx combines cycle operations with transaction management
type CycleRepositoryWithTx interface {
	TransactionManager
	CycleReader
	CycleWriter
}
