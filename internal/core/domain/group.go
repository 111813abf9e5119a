package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GroupStatus tracks whether a group can take members or is closed.
type GroupStatus string

const (
	GroupActive    GroupStatus = "active"
	GroupFull      GroupStatus = "full"
	GroupInactive  GroupStatus = "inactive"
	GroupCompleted GroupStatus = "completed"
)

// CommitteeRole is one of the three management committee seats.
type CommitteeRole string

const (
	CommitteePresident CommitteeRole = "president"
	CommitteeSecretary CommitteeRole = "secretary"
	CommitteeTreasurer CommitteeRole = "treasurer"
)

// ParseCommitteeRole returns the committee role for s, if any.
func ParseCommitteeRole(s string) (CommitteeRole, bool) {
	switch CommitteeRole(strings.ToLower(strings.TrimSpace(s))) {
	case CommitteePresident:
		return CommitteePresident, true
	case CommitteeSecretary:
		return CommitteeSecretary, true
	case CommitteeTreasurer:
		return CommitteeTreasurer, true
	}
	return "", false
}

const (
	DefaultMaxMembers         = 25
	DefaultLoanDurationMonths = 6
)

var (
	DefaultShareValue                 = decimal.NewFromInt(1000)
	DefaultLoanInterestRate           = decimal.NewFromInt(10)
	DefaultSolidarityContributionRate = decimal.NewFromInt(5)
)

// Group is an AVEC savings group belonging to one cycle.
type Group struct {
	GroupID                    int64           `json:"groupID" db:"group_id"`
	CycleID                    int64           `json:"cycleID" db:"cycle_id"`
	Name                       string          `json:"name" db:"name"`
	Description                string          `json:"description" db:"description"`
	Village                    string          `json:"village" db:"village"`
	MaxMembers                 int             `json:"maxMembers" db:"max_members"`
	CurrentMembers             int             `json:"currentMembers" db:"current_members"`
	Status                     GroupStatus     `json:"status" db:"status"`
	MeetingLocation            string          `json:"meetingLocation" db:"meeting_location"`
	MeetingTime                string          `json:"meetingTime" db:"meeting_time"`
	ShareValue                 decimal.Decimal `json:"shareValue" db:"share_value"`
	ContributionAmount         decimal.Decimal `json:"contributionAmount" db:"contribution_amount"`
	TotalSavings               decimal.Decimal `json:"totalSavings" db:"total_savings"`
	TotalLoans                 decimal.Decimal `json:"totalLoans" db:"total_loans"`
	SolidarityFund             decimal.Decimal `json:"solidarityFund" db:"solidarity_fund"`
	LoanInterestRate           decimal.Decimal `json:"loanInterestRate" db:"loan_interest_rate"`
	MaxLoanAmount              decimal.Decimal `json:"maxLoanAmount" db:"max_loan_amount"`
	LoanDurationMonths         int             `json:"loanDurationMonths" db:"loan_duration_months"`
	SolidarityContributionRate decimal.Decimal `json:"solidarityContributionRate" db:"solidarity_contribution_rate"`
	PresidentID                *int64          `json:"presidentID,omitempty" db:"president_id"`
	SecretaryID                *int64          `json:"secretaryID,omitempty" db:"secretary_id"`
	TreasurerID                *int64          `json:"treasurerID,omitempty" db:"treasurer_id"`
	SharedAt                   *time.Time      `json:"sharedAt,omitempty" db:"shared_at"`
	Version                    int64           `json:"version" db:"version"`
	AuditFields
}

// CanAcceptMembers is true for an active group below capacity.
func (g Group) CanAcceptMembers() bool {
	return g.Status == GroupActive && g.CurrentMembers < g.MaxMembers
}

// IsShared reports whether profit-sharing has already run for the group.
func (g Group) IsShared() bool {
	return g.SharedAt != nil || g.Status == GroupCompleted
}

// AdmitMember increments the member count and flips the group to full at capacity.
func (g *Group) AdmitMember() error {
	if !g.CanAcceptMembers() {
		return ErrGroupFull
	}
	g.CurrentMembers++
	if g.CurrentMembers >= g.MaxMembers {
		g.Status = GroupFull
	}
	return nil
}

// ReleaseMember decrements the member count and reopens a full group.
func (g *Group) ReleaseMember() error {
	if g.CurrentMembers <= 0 {
		return ErrGroupEmpty
	}
	g.CurrentMembers--
	if g.Status == GroupFull && g.CurrentMembers < g.MaxMembers {
		g.Status = GroupActive
	}
	return nil
}

// Resize changes the capacity and keeps the active/full status consistent with it.
func (g *Group) Resize(maxMembers int) error {
	if maxMembers < g.CurrentMembers || maxMembers <= 0 {
		return ErrCapacityBelowMembers
	}
	g.MaxMembers = maxMembers
	switch {
	case g.Status == GroupActive && g.CurrentMembers >= g.MaxMembers:
		g.Status = GroupFull
	case g.Status == GroupFull && g.CurrentMembers < g.MaxMembers:
		g.Status = GroupActive
	}
	return nil
}

// CommitteeHolder returns the user holding role, or nil.
func (g Group) CommitteeHolder(role CommitteeRole) *int64 {
	switch role {
	case CommitteePresident:
		return g.PresidentID
	case CommitteeSecretary:
		return g.SecretaryID
	case CommitteeTreasurer:
		return g.TreasurerID
	}
	return nil
}

// SetCommittee assigns role to userID; nil clears the seat.
func (g *Group) SetCommittee(role CommitteeRole, userID *int64) {
	switch role {
	case CommitteePresident:
		g.PresidentID = userID
	case CommitteeSecretary:
		g.SecretaryID = userID
	case CommitteeTreasurer:
		g.TreasurerID = userID
	}
}

// CommitteeRolesOf lists the seats held by userID.
func (g Group) CommitteeRolesOf(userID int64) []CommitteeRole {
	var roles []CommitteeRole
	for _, role := range []CommitteeRole{CommitteePresident, CommitteeSecretary, CommitteeTreasurer} {
		if holder := g.CommitteeHolder(role); holder != nil && *holder == userID {
			roles = append(roles, role)
		}
	}
	return roles
}

// TotalCapital is the distributable pool at sharing time: savings plus loans.
func (g Group) TotalCapital() decimal.Decimal {
	return g.TotalSavings.Add(g.TotalLoans)
}

// ValidateShareAmount checks that amount buys a whole number of shares.
func (g Group) ValidateShareAmount(amount decimal.Decimal) error {
	if !g.ShareValue.IsPositive() {
		return ErrInvalidShareValue
	}
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if !amount.Mod(g.ShareValue).IsZero() {
		return ErrNotShareMultiple
	}
	return nil
}

// Membership links a user to a group, with an optional committee seat.
type Membership struct {
	MembershipID  int64         `json:"membershipID" db:"membership_id"`
	GroupID       int64         `json:"groupID" db:"group_id"`
	UserID        int64         `json:"userID" db:"user_id"`
	UserName      string        `json:"userName" db:"user_name"`
	CommitteeRole CommitteeRole `json:"committeeRole" db:"committee_role"`
	JoinedAt      time.Time     `json:"joinedAt" db:"joined_at"`
}
