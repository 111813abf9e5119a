package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberAccountBook summarises one member's ledger activity in a group.
type MemberAccountBook struct {
	GroupID            int64           `json:"groupID"`
	UserID             int64           `json:"userID"`
	SharesPurchased    decimal.Decimal `json:"sharesPurchased"`
	ShareCount         decimal.Decimal `json:"shareCount"`
	Interest           decimal.Decimal `json:"interest"`
	LoansTaken         decimal.Decimal `json:"loansTaken"`
	LoansRepaid        decimal.Decimal `json:"loansRepaid"`
	OutstandingLoans   decimal.Decimal `json:"outstandingLoans"`
	SolidarityPaid     decimal.Decimal `json:"solidarityPaid"`
	ProfitSharingPaid  decimal.Decimal `json:"profitSharingPaid"`
	PendingTransaction int             `json:"pendingTransactions"`
}

// TypeTotal aggregates ledger entries of one type.
type TypeTotal struct {
	Type   TransactionType `json:"type" db:"type"`
	Count  int64           `json:"count" db:"count"`
	Amount decimal.Decimal `json:"amount" db:"amount"`
}

// PhaseCount is the number of groups and members in cycles of a given phase.
type PhaseCount struct {
	Phase   CyclePhase `json:"phase" db:"phase"`
	Groups  int64      `json:"groups" db:"groups"`
	Members int64      `json:"members" db:"members"`
}

// SupervisionDashboard is the cross-group overview used by supervisors.
type SupervisionDashboard struct {
	ByPhase             []PhaseCount    `json:"byPhase"`
	TotalGroups         int64           `json:"totalGroups"`
	TotalMembers        int64           `json:"totalMembers"`
	TotalSavings        decimal.Decimal `json:"totalSavings"`
	TotalLoans          decimal.Decimal `json:"totalLoans"`
	TotalSolidarityFund decimal.Decimal `json:"totalSolidarityFund"`
}

// StatsPeriod is the window for transaction statistics.
type StatsPeriod string

const (
	PeriodWeek  StatsPeriod = "week"
	PeriodMonth StatsPeriod = "month"
	PeriodYear  StatsPeriod = "year"
)

// Since returns the start of the window ending at now.
func (p StatsPeriod) Since(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	case PeriodYear:
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// TransactionStats aggregates completed ledger entries over a period.
type TransactionStats struct {
	Period        StatsPeriod     `json:"period"`
	Since         time.Time       `json:"since"`
	GroupID       *int64          `json:"groupID,omitempty"`
	Count         int64           `json:"count"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AverageAmount decimal.Decimal `json:"averageAmount"`
	ByType        []TypeTotal     `json:"byType"`
}

// Alerts lists items needing attention.
type Alerts struct {
	CyclesEndingSoon    []Cycle       `json:"cyclesEndingSoon"`
	OverdueTransactions []Transaction `json:"overdueTransactions"`
}
