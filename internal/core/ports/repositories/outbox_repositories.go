package repositories

import (
	"context"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// OutboxWriter stores events in the same transaction as the change they describe.
type OutboxWriter interface {
	InsertEvent(ctx context.Context, tx pgx.Tx, event domain.OutboxEvent) error
}

// OutboxReader is used by the dispatcher to drain pending events.
type OutboxReader interface {
	GetPendingEvents(ctx context.Context, limit int) ([]domain.OutboxEvent, error)
	MarkAsSent(ctx context.Context, eventID string) error

	// MarkAsFailed bumps the retry count and records lastError. Once retries
	// reach maxRetries the event is parked as failed.
	MarkAsFailed(ctx context.Context, eventID string, lastError string, maxRetries int) error
}

// OutboxRepositoryFacade combines outbox operations
type OutboxRepositoryFacade interface {
	OutboxWriter
	OutboxReader
}
