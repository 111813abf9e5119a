package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberShares is the number of shares a member bought in a group.
type MemberShares struct {
	UserID int64           `json:"userID" db:"user_id"`
	Shares decimal.Decimal `json:"shares" db:"shares"`
}

// GroupCapital is the share accounting view of a group, derived from completed share purchases.
type GroupCapital struct {
	GroupID        int64           `json:"groupID"`
	ShareValue     decimal.Decimal `json:"shareValue"`
	TotalShares    decimal.Decimal `json:"totalShares"`
	TotalSavings   decimal.Decimal `json:"totalSavings"`
	TotalLoans     decimal.Decimal `json:"totalLoans"`
	SolidarityFund decimal.Decimal `json:"solidarityFund"`
	Members        []MemberShares  `json:"members"`
}

// Payout is one member's part of the distributed capital.
type Payout struct {
	UserID        int64           `json:"userID"`
	Shares        decimal.Decimal `json:"shares"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID *int64          `json:"transactionID,omitempty"`
}

// SharingPlan is the computed (or executed) end-of-cycle distribution for a group.
type SharingPlan struct {
	GroupID      int64           `json:"groupID"`
	CycleID      int64           `json:"cycleID"`
	TotalCapital decimal.Decimal `json:"totalCapital"`
	TotalShares  decimal.Decimal `json:"totalShares"`
	Payouts      []Payout        `json:"payouts"`
	Ready        bool            `json:"ready"`
	Executed     bool            `json:"executed"`
	ExecutedAt   *time.Time      `json:"executedAt,omitempty"`
}

// TotalPaid sums the payout amounts of the plan.
func (p SharingPlan) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, payout := range p.Payouts {
		total = total.Add(payout.Amount)
	}
	return total
}
