package dto

import (
	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateGroupRequest forms a new group inside a cycle.
type CreateGroupRequest struct {
	CycleID                    int64            `json:"cycleID" binding:"required,gt=0"`
	Name                       string           `json:"name" binding:"required,max=200"`
	Description                string           `json:"description"`
	Village                    string           `json:"village" binding:"required,max=100"`
	MaxMembers                 int              `json:"maxMembers" binding:"omitempty,min=1,max=100"`
	MeetingLocation            string           `json:"meetingLocation" binding:"max=200"`
	MeetingTime                string           `json:"meetingTime" binding:"omitempty,datetime=15:04"`
	ShareValue                 decimal.Decimal  `json:"shareValue" binding:"sharevalue"`
	ContributionAmount         decimal.Decimal  `json:"contributionAmount" binding:"nonnegativeamount"`
	LoanInterestRate           *decimal.Decimal `json:"loanInterestRate" binding:"omitempty,nonnegativeamount"`
	MaxLoanAmount              decimal.Decimal  `json:"maxLoanAmount" binding:"nonnegativeamount"`
	LoanDurationMonths         int              `json:"loanDurationMonths" binding:"omitempty,min=1,max=60"`
	SolidarityContributionRate *decimal.Decimal `json:"solidarityContributionRate" binding:"omitempty,nonnegativeamount"`
}

// UpdateGroupRequest edits a group. Share value is fixed once the group exists.
type UpdateGroupRequest struct {
	Name                       *string          `json:"name" binding:"omitempty,max=200"`
	Description                *string          `json:"description"`
	Village                    *string          `json:"village" binding:"omitempty,max=100"`
	MaxMembers                 *int             `json:"maxMembers" binding:"omitempty,min=1,max=100"`
	Status                     *string          `json:"status" binding:"omitempty,oneof=active inactive"`
	MeetingLocation            *string          `json:"meetingLocation" binding:"omitempty,max=200"`
	MeetingTime                *string          `json:"meetingTime" binding:"omitempty,datetime=15:04"`
	ContributionAmount         *decimal.Decimal `json:"contributionAmount" binding:"omitempty,nonnegativeamount"`
	LoanInterestRate           *decimal.Decimal `json:"loanInterestRate" binding:"omitempty,nonnegativeamount"`
	MaxLoanAmount              *decimal.Decimal `json:"maxLoanAmount" binding:"omitempty,nonnegativeamount"`
	LoanDurationMonths         *int             `json:"loanDurationMonths" binding:"omitempty,min=1,max=60"`
	SolidarityContributionRate *decimal.Decimal `json:"solidarityContributionRate" binding:"omitempty,nonnegativeamount"`
}

// ListGroupsParams defines query parameters for listing groups.
type ListGroupsParams struct {
	CycleID *int64 `form:"cycleID"`
	Status  string `form:"status" binding:"omitempty,oneof=active full inactive completed"`
	Village string `form:"village"`
	Limit   int    `form:"limit,default=20"`
	Offset  int    `form:"offset,default=0"`
}

// GroupResponse is a group plus its distributable capital.
type GroupResponse struct {
	domain.Group
	TotalCapital decimal.Decimal `json:"totalCapital"`
}

func ToGroupResponse(g *domain.Group) GroupResponse {
	return GroupResponse{Group: *g, TotalCapital: g.TotalCapital()}
}

// ListGroupsResponse wraps a list of groups.
type ListGroupsResponse struct {
	Groups []GroupResponse `json:"groups"`
}

func ToListGroupsResponse(groups []domain.Group) ListGroupsResponse {
	out := make([]GroupResponse, len(groups))
	for i := range groups {
		out[i] = ToGroupResponse(&groups[i])
	}
	return ListGroupsResponse{Groups: out}
}

// AddMemberRequest adds a user to a group.
type AddMemberRequest struct {
	UserID int64 `json:"userID" binding:"required,gt=0"`
}

// AssignCommitteeRequest seats a member on the committee. UserID 0 clears the seat.
type AssignCommitteeRequest struct {
	Role   string `json:"role" binding:"required,committeerole"`
	UserID int64  `json:"userID" binding:"gte=0"`
}

// ListMembersResponse wraps a group's memberships.
type ListMembersResponse struct {
	Members []domain.Membership `json:"members"`
}

// MemberSharesResponse is one member's share count next to the group total.
type MemberSharesResponse struct {
	GroupID     int64           `json:"groupID"`
	UserID      int64           `json:"userID"`
	Shares      decimal.Decimal `json:"shares"`
	TotalShares decimal.Decimal `json:"totalShares"`
}
