package domain

import (
	"encoding/json"
	"time"
)

// Event types written to the outbox.
const (
	EventTransactionCreated   = "transaction.created"
	EventTransactionApproved  = "transaction.approved"
	EventTransactionRejected  = "transaction.rejected"
	EventTransactionCompleted = "transaction.completed"
	EventMembershipAdded      = "membership.added"
	EventMembershipRemoved    = "membership.removed"
	EventCyclePhaseAdvanced   = "cycle.phase_advanced"
	EventSharingExecuted      = "sharing.executed"
)

// OutboxStatus is the delivery state of an outbox event.
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "pending"
	OutboxSent    OutboxStatus = "sent"
	OutboxFailed  OutboxStatus = "failed"
)

// OutboxEvent is a domain event stored in the same transaction as the change it describes.
type OutboxEvent struct {
	EventID       string          `json:"eventID" db:"event_id"`
	AggregateType string          `json:"aggregateType" db:"aggregate_type"`
	AggregateID   int64           `json:"aggregateID" db:"aggregate_id"`
	EventType     string          `json:"eventType" db:"event_type"`
	Payload       json.RawMessage `json:"payload" db:"payload"`
	Status        OutboxStatus    `json:"status" db:"status"`
	Retries       int             `json:"retries" db:"retries"`
	LastError     *string         `json:"lastError,omitempty" db:"last_error"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	SentAt        *time.Time      `json:"sentAt,omitempty" db:"sent_at"`
}
