package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CyclePhase is a step of the savings cycle. Phases only move forward.
type CyclePhase string

const (
	PhasePreparation CyclePhase = "preparation"
	PhaseFormation   CyclePhase = "formation"
	PhaseSupervision CyclePhase = "supervision"
	PhaseCompleted   CyclePhase = "completed"
)

var phaseOrder = []CyclePhase{PhasePreparation, PhaseFormation, PhaseSupervision, PhaseCompleted}

// ParsePhase accepts the phase names plus "intensive", an older name for formation.
func ParsePhase(s string) (CyclePhase, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "preparation":
		return PhasePreparation, true
	case "formation", "intensive":
		return PhaseFormation, true
	case "supervision":
		return PhaseSupervision, true
	case "completed":
		return PhaseCompleted, true
	}
	return "", false
}

func (p CyclePhase) index() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Next returns the phase after p. ok is false when p is terminal or unknown.
func (p CyclePhase) Next() (next CyclePhase, ok bool) {
	i := p.index()
	if i < 0 || i == len(phaseOrder)-1 {
		return "", false
	}
	return phaseOrder[i+1], true
}

// Before reports whether p comes strictly before other in the cycle.
func (p CyclePhase) Before(other CyclePhase) bool {
	return p.index() < other.index()
}

// CycleStatus toggles whether a cycle is in use.
type CycleStatus string

const (
	CycleActive   CycleStatus = "active"
	CycleInactive CycleStatus = "inactive"
)

// Cycle is a bounded savings period that owns groups and ends in profit-sharing.
type Cycle struct {
	CycleID           int64           `json:"cycleID" db:"cycle_id"`
	OrganizationID    *int64          `json:"organizationID,omitempty" db:"organization_id"`
	Name              string          `json:"name" db:"name"`
	Description       string          `json:"description" db:"description"`
	Phase             CyclePhase      `json:"phase" db:"phase"`
	Status            CycleStatus     `json:"status" db:"status"`
	StartDate         time.Time       `json:"startDate" db:"start_date"`
	EndDate           *time.Time      `json:"endDate,omitempty" db:"end_date"`
	TargetAmount      decimal.Decimal `json:"targetAmount" db:"target_amount"`
	CurrentAmount     decimal.Decimal `json:"currentAmount" db:"current_amount"`
	InterestRate      decimal.Decimal `json:"interestRate" db:"interest_rate"`
	MeetingFrequency  string          `json:"meetingFrequency" db:"meeting_frequency"`
	MeetingDay        string          `json:"meetingDay" db:"meeting_day"`
	CycleYear         int             `json:"cycleYear" db:"cycle_year"`
	IsCompleted       bool            `json:"isCompleted" db:"is_completed"`
	ProfitSharingDate *time.Time      `json:"profitSharingDate,omitempty" db:"profit_sharing_date"`
	Version           int64           `json:"version" db:"version"`
	AuditFields
}

// AdvancePhase moves the cycle to the next phase. A completed cycle cannot advance.
func (c *Cycle) AdvancePhase(userID int64, now time.Time) error {
	if c.Phase == PhaseCompleted {
		return ErrCycleAlreadyCompleted
	}
	next, ok := c.Phase.Next()
	if !ok {
		return ErrUnknownPhase
	}
	c.Phase = next
	if next == PhaseCompleted {
		c.IsCompleted = true
	}
	c.Touch(userID, now)
	return nil
}

// IsReadyForSharing is true once the end date is set and reached.
func (c Cycle) IsReadyForSharing(now time.Time) bool {
	return c.EndDate != nil && !now.Before(*c.EndDate)
}

// ProgressPercentage is current/target as a percentage capped at 100, zero without a target.
func (c Cycle) ProgressPercentage() decimal.Decimal {
	if !c.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	pct := c.CurrentAmount.Div(c.TargetAmount).Mul(decimal.NewFromInt(100))
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return pct.Round(2)
}

// MarkShared closes the cycle after a group's profit-sharing. The sharing
// date is only recorded the first time.
func (c *Cycle) MarkShared(userID int64, now time.Time) {
	c.IsCompleted = true
	c.Phase = PhaseCompleted
	if c.ProfitSharingDate == nil {
		c.ProfitSharingDate = &now
	}
	c.Touch(userID, now)
}

// EndsWithin reports whether an active cycle ends between now and now+window.
func (c Cycle) EndsWithin(now time.Time, window time.Duration) bool {
	if c.EndDate == nil || c.Status != CycleActive || c.IsCompleted {
		return false
	}
	return !c.EndDate.Before(now) && !c.EndDate.After(now.Add(window))
}
