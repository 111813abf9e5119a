package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOutboxRepository struct {
	BaseRepository
}

func newPgxOutboxRepository(db *pgxpool.Pool) portsrepo.OutboxRepositoryFacade {
	return &PgxOutboxRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.OutboxRepositoryFacade = (*PgxOutboxRepository)(nil)

// InsertEvent must run in the caller's transaction so the event commits with the change.
func (r *PgxOutboxRepository) InsertEvent(ctx context.Context, tx pgx.Tx, event domain.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (event_id, aggregate_type, aggregate_id, event_type, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db(tx).Exec(ctx, query,
		event.EventID,
		event.AggregateType,
		event.AggregateID,
		event.EventType,
		[]byte(event.Payload),
		string(domain.OutboxPending),
		event.CreatedAt,
	)
	if err != nil {
		return mapPgError(err, "failed to insert outbox event")
	}
	return nil
}

// GetPendingEvents returns the oldest pending events. Run a single dispatcher per database.
func (r *PgxOutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	query := `
		SELECT event_id::TEXT, aggregate_type, aggregate_id, event_type, payload, status,
			retries, last_error, created_at, sent_at
		FROM outbox_events
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1`

	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending events: %w", err)
	}
	defer rows.Close()

	events := []domain.OutboxEvent{}
	for rows.Next() {
		var e domain.OutboxEvent
		var status string
		var payload []byte
		if err := rows.Scan(
			&e.EventID,
			&e.AggregateType,
			&e.AggregateID,
			&e.EventType,
			&payload,
			&status,
			&e.Retries,
			&e.LastError,
			&e.CreatedAt,
			&e.SentAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		e.Payload = payload
		e.Status = domain.OutboxStatus(status)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox events: %w", err)
	}
	return events, nil
}

func (r *PgxOutboxRepository) MarkAsSent(ctx context.Context, eventID string) error {
	_, err := r.Pool.Exec(ctx,
		`UPDATE outbox_events SET status = 'sent', sent_at = NOW() WHERE event_id = $1`,
		eventID,
	)
	if err != nil {
		return mapPgError(err, "failed to mark event as sent")
	}
	return nil
}

func (r *PgxOutboxRepository) MarkAsFailed(ctx context.Context, eventID string, lastError string, maxRetries int) error {
	query := `
		UPDATE outbox_events SET
			retries = retries + 1,
			last_error = $2,
			status = CASE WHEN retries + 1 >= $3 THEN 'failed' ELSE 'pending' END
		WHERE event_id = $1`
	_, err := r.Pool.Exec(ctx, query, eventID, lastError, maxRetries)
	if err != nil {
		return mapPgError(err, "failed to mark event as failed")
	}
	return nil
}
