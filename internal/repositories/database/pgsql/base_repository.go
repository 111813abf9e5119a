package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes the repositories translate.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// querier is the part of pgx.Tx and *pgxpool.Pool the repositories use.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err, "failed to commit transaction")
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if tx == nil {
		return nil
	}
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// db returns tx when the caller holds one, the pool otherwise.
func (r *BaseRepository) db(tx pgx.Tx) querier {
	if tx != nil {
		return tx
	}
	return r.Pool
}

// mapPgError turns driver errors into apperrors kinds so handlers can map them to HTTP codes.
func mapPgError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(msg)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &apperrors.AppError{Code: http.StatusConflict, Message: msg, Kind: apperrors.ErrDuplicate, Err: err}
		case pgForeignKeyViolation, pgCheckViolation:
			return &apperrors.AppError{Code: http.StatusBadRequest, Message: msg, Kind: apperrors.ErrValidation, Err: err}
		case pgSerializationFailure, pgDeadlockDetected:
			return &apperrors.AppError{Code: http.StatusConflict, Message: msg, Kind: apperrors.ErrConflict, Err: err}
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// staleWrite is returned when a version-checked update touched no row.
func staleWrite(entity string, id int64) error {
	return apperrors.NewConflictError(fmt.Sprintf("%s %d was modified concurrently, retry the operation", entity, id))
}
