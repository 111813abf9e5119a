package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of value movement recorded in a group's ledger.
type TransactionType string

const (
	SharesPurchase TransactionType = "shares_purchase"
	Loan           TransactionType = "loan"
	LoanRepayment  TransactionType = "loan_repayment"
	Solidarity     TransactionType = "solidarity"
	Interest       TransactionType = "interest"
	ProfitSharing  TransactionType = "profit_sharing"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case SharesPurchase, Loan, LoanRepayment, Solidarity, Interest, ProfitSharing:
		return true
	}
	return false
}

// SkipsApproval is true for contributions that are recorded as completed on creation.
func (t TransactionType) SkipsApproval() bool {
	return t == SharesPurchase || t == Solidarity
}

// TransactionStatus is the ledger workflow state. Completed and rejected are terminal.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusApproved  TransactionStatus = "approved"
	StatusCompleted TransactionStatus = "completed"
	StatusRejected  TransactionStatus = "rejected"
)

var allowedTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusCompleted},
}

// CanTransition reports whether the ledger workflow allows from -> to.
func CanTransition(from, to TransactionStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal is true once no further status change is allowed.
func (s TransactionStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Transaction is a single ledger entry of a group. Type and amount never change after creation.
type Transaction struct {
	TransactionID    int64             `json:"transactionID" db:"transaction_id"`
	GroupID          int64             `json:"groupID" db:"group_id"`
	UserID           int64             `json:"userID" db:"user_id"`
	Type             TransactionType   `json:"type" db:"type"`
	Amount           decimal.Decimal   `json:"amount" db:"amount"`
	Status           TransactionStatus `json:"status" db:"status"`
	Description      string            `json:"description" db:"description"`
	DueDate          *time.Time        `json:"dueDate,omitempty" db:"due_date"`
	InterestRate     *decimal.Decimal  `json:"interestRate,omitempty" db:"interest_rate"`
	LoanTerm         *int              `json:"loanTerm,omitempty" db:"loan_term"`
	RemainingBalance *decimal.Decimal  `json:"remainingBalance,omitempty" db:"remaining_balance"`
	LoanID           *int64            `json:"loanID,omitempty" db:"loan_id"`
	LoanPurpose      string            `json:"loanPurpose" db:"loan_purpose"`
	MeetingID        *int64            `json:"meetingID,omitempty" db:"meeting_id"`
	ApprovedBy       *int64            `json:"approvedBy,omitempty" db:"approved_by"`
	ApprovedAt       *time.Time        `json:"approvedAt,omitempty" db:"approved_at"`
	CompletedAt      *time.Time        `json:"completedAt,omitempty" db:"completed_at"`
	AuditFields
}

// Approve moves a pending entry to approved and stamps the approver.
// Loans start with their full amount outstanding.
func (t *Transaction) Approve(approverID int64, now time.Time) error {
	if !CanTransition(t.Status, StatusApproved) {
		return ErrNotPending
	}
	t.Status = StatusApproved
	t.ApprovedBy = &approverID
	t.ApprovedAt = &now
	if t.Type == Loan {
		remaining := t.Amount
		t.RemainingBalance = &remaining
	}
	t.Touch(approverID, now)
	return nil
}

// Reject closes a pending entry. A non-empty reason is appended to the description.
func (t *Transaction) Reject(userID int64, reason string, now time.Time) error {
	if !CanTransition(t.Status, StatusRejected) {
		return ErrNotPending
	}
	t.Status = StatusRejected
	if reason != "" {
		t.Description = t.Description + "\n\nRejection reason: " + reason
	}
	t.Touch(userID, now)
	return nil
}

// Complete moves an approved entry to completed.
func (t *Transaction) Complete(userID int64, now time.Time) error {
	if !CanTransition(t.Status, StatusCompleted) {
		return ErrNotApproved
	}
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.Touch(userID, now)
	return nil
}

// ApplyRepayment reduces the outstanding balance of a loan by amount, never below zero,
// and returns the new balance.
func (t *Transaction) ApplyRepayment(amount decimal.Decimal) decimal.Decimal {
	remaining := t.Amount
	if t.RemainingBalance != nil {
		remaining = *t.RemainingBalance
	}
	remaining = remaining.Sub(amount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	t.RemainingBalance = &remaining
	return remaining
}

// IsOverdue is true for a pending entry whose due date has passed.
func (t Transaction) IsOverdue(now time.Time) bool {
	return t.Status == StatusPending && t.DueDate != nil && t.DueDate.Before(now)
}

// CapitalEffect describes how an approved or completed entry moves the group aggregates.
type CapitalEffect struct {
	Savings    decimal.Decimal
	Loans      decimal.Decimal
	Solidarity decimal.Decimal
}

// IsZero reports whether the effect leaves the group totals unchanged.
func (e CapitalEffect) IsZero() bool {
	return e.Savings.IsZero() && e.Loans.IsZero() && e.Solidarity.IsZero()
}

// CapitalEffect returns the aggregate change applied when the entry is approved,
// or created already completed.
func (t Transaction) CapitalEffect() CapitalEffect {
	effect := CapitalEffect{Savings: decimal.Zero, Loans: decimal.Zero, Solidarity: decimal.Zero}
	switch t.Type {
	case SharesPurchase, Interest:
		effect.Savings = t.Amount
	case Solidarity:
		effect.Solidarity = t.Amount
	case Loan:
		effect.Loans = t.Amount
	}
	return effect
}

// ApplyCapital adds an effect to the group totals.
func (g *Group) ApplyCapital(effect CapitalEffect) {
	g.TotalSavings = g.TotalSavings.Add(effect.Savings)
	g.TotalLoans = g.TotalLoans.Add(effect.Loans)
	g.SolidarityFund = g.SolidarityFund.Add(effect.Solidarity)
}
