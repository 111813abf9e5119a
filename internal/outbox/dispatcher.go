// Package outbox drains events written next to ledger changes and hands them to a broker.
package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	"github.com/SscSPs/avec_backend/pkg/metrics"
)

// Publisher is satisfied by mq.Publisher and mq.LogPublisher.
type Publisher interface {
	Publish(ctx context.Context, routingKey, messageID string, body json.RawMessage) error
}

// Dispatcher polls pending outbox rows and publishes them with the event type as routing key.
type Dispatcher struct {
	repo       portsrepo.OutboxReader
	publisher  Publisher
	logger     *slog.Logger
	interval   time.Duration
	batchSize  int
	maxRetries int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithInterval(d time.Duration) Option {
	return func(dp *Dispatcher) {
		if d > 0 {
			dp.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(dp *Dispatcher) {
		if n > 0 {
			dp.batchSize = n
		}
	}
}

func WithMaxRetries(n int) Option {
	return func(dp *Dispatcher) {
		if n > 0 {
			dp.maxRetries = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(dp *Dispatcher) {
		if l != nil {
			dp.logger = l
		}
	}
}

func NewDispatcher(repo portsrepo.OutboxReader, publisher Publisher, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		repo:       repo,
		publisher:  publisher,
		logger:     slog.Default(),
		interval:   5 * time.Second,
		batchSize:  50,
		maxRetries: 5,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run blocks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("Starting outbox dispatcher",
		slog.Duration("interval", d.interval),
		slog.Int("batch_size", d.batchSize),
		slog.Int("max_retries", d.maxRetries),
	)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Outbox dispatcher stopped")
			return
		case <-ticker.C:
			d.DispatchOnce(ctx)
		}
	}
}

// DispatchOnce publishes one batch and returns how many events were sent.
func (d *Dispatcher) DispatchOnce(ctx context.Context) int {
	events, err := d.repo.GetPendingEvents(ctx, d.batchSize)
	if err != nil {
		d.logger.ErrorContext(ctx, "Failed to load pending outbox events", slog.Any("error", err))
		return 0
	}

	sent := 0
	for _, event := range events {
		if ctx.Err() != nil {
			return sent
		}
		if d.publish(ctx, event) {
			sent++
		}
	}
	if len(events) > 0 {
		d.logger.DebugContext(ctx, "Outbox batch processed", slog.Int("count", len(events)), slog.Int("sent", sent))
	}
	return sent
}

func (d *Dispatcher) publish(ctx context.Context, event domain.OutboxEvent) bool {
	if err := d.publisher.Publish(ctx, event.EventType, event.EventID, event.Payload); err != nil {
		metrics.RecordOutbox("failed")
		d.logger.WarnContext(ctx, "Failed to publish outbox event",
			slog.String("event_id", event.EventID),
			slog.String("event_type", event.EventType),
			slog.Int("retries", event.Retries),
			slog.Any("error", err),
		)
		if markErr := d.repo.MarkAsFailed(ctx, event.EventID, err.Error(), d.maxRetries); markErr != nil {
			d.logger.ErrorContext(ctx, "Failed to record outbox failure", slog.String("event_id", event.EventID), slog.Any("error", markErr))
		}
		return false
	}

	metrics.RecordOutbox("sent")
	if err := d.repo.MarkAsSent(ctx, event.EventID); err != nil {
		// The event goes out again on the next poll; consumers dedupe on message id.
		d.logger.ErrorContext(ctx, "Failed to mark outbox event as sent", slog.String("event_id", event.EventID), slog.Any("error", err))
		return false
	}
	return true
}
