package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	"github.com/SscSPs/avec_backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Outbox portsrepo.OutboxWriter
	Clock  func() time.Time
}

// BaseOption configures the BaseService embedded in a service.
type BaseOption func(*BaseService)

// WithOutbox records domain events in the outbox inside each business transaction.
func WithOutbox(outbox portsrepo.OutboxWriter) BaseOption {
	return func(s *BaseService) {
		s.Outbox = outbox
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) BaseOption {
	return func(s *BaseService) {
		s.Clock = now
	}
}

func newBaseService(options ...BaseOption) BaseService {
	base := BaseService{Clock: time.Now}
	for _, option := range options {
		option(&base)
	}
	return base
}

// Now returns the current time from the configured clock, in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// RecordEvent writes an outbox event in tx. Without an outbox it only logs at debug level.
func (s *BaseService) RecordEvent(ctx context.Context, tx pgx.Tx, aggregateType string, aggregateID int64, eventType string, payload any) error {
	if s.Outbox == nil {
		s.LogDebug(ctx, "No outbox configured, event not recorded",
			slog.String("event_type", eventType),
			slog.Int64("aggregate_id", aggregateID))
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event payload: %w", eventType, err)
	}
	event := domain.OutboxEvent{
		EventID:       uuid.NewString(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       body,
		Status:        domain.OutboxPending,
		CreatedAt:     s.Now(),
	}
	if err := s.Outbox.InsertEvent(ctx, tx, event); err != nil {
		return fmt.Errorf("failed to record %s event: %w", eventType, err)
	}
	return nil
}

// passThrough returns err unchanged when it already carries an application kind,
// otherwise wraps it as an internal failure with msg.
func passThrough(err error, msg string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrDuplicate) ||
		errors.Is(err, apperrors.ErrAlreadyMember) ||
		errors.Is(err, apperrors.ErrNotAMember) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
