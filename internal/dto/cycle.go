package dto

import (
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCycleRequest opens a new savings cycle in the preparation phase.
type CreateCycleRequest struct {
	Name             string          `json:"name" binding:"required,max=200"`
	Description      string          `json:"description"`
	OrganizationID   *int64          `json:"organizationID" binding:"omitempty,gt=0"`
	StartDate        time.Time       `json:"startDate" binding:"required"`
	EndDate          *time.Time      `json:"endDate"`
	TargetAmount     decimal.Decimal `json:"targetAmount" binding:"nonnegativeamount"`
	InterestRate     decimal.Decimal `json:"interestRate" binding:"nonnegativeamount"`
	MeetingFrequency string          `json:"meetingFrequency" binding:"omitempty,oneof=weekly biweekly monthly"`
	MeetingDay       string          `json:"meetingDay" binding:"max=20"`
	CycleYear        int             `json:"cycleYear" binding:"omitempty,min=1"`
}

// UpdateCycleRequest edits a cycle. Phase and completion are not editable.
type UpdateCycleRequest struct {
	Name             *string          `json:"name" binding:"omitempty,max=200"`
	Description      *string          `json:"description"`
	Status           *string          `json:"status" binding:"omitempty,oneof=active inactive"`
	StartDate        *time.Time       `json:"startDate"`
	EndDate          *time.Time       `json:"endDate"`
	TargetAmount     *decimal.Decimal `json:"targetAmount" binding:"omitempty,nonnegativeamount"`
	CurrentAmount    *decimal.Decimal `json:"currentAmount" binding:"omitempty,nonnegativeamount"`
	InterestRate     *decimal.Decimal `json:"interestRate" binding:"omitempty,nonnegativeamount"`
	MeetingFrequency *string          `json:"meetingFrequency" binding:"omitempty,oneof=weekly biweekly monthly"`
	MeetingDay       *string          `json:"meetingDay" binding:"omitempty,max=20"`
}

// ListCyclesParams defines query parameters for listing cycles.
type ListCyclesParams struct {
	Status         string `form:"status" binding:"omitempty,oneof=active inactive"`
	Phase          string `form:"phase"`
	OrganizationID *int64 `form:"organizationID"`
	Limit          int    `form:"limit,default=20"`
	Offset         int    `form:"offset,default=0"`
}

// CycleResponse is a cycle plus its derived progress and readiness.
type CycleResponse struct {
	domain.Cycle
	ProgressPercentage decimal.Decimal `json:"progressPercentage"`
	ReadyForSharing    bool            `json:"readyForSharing"`
}

func ToCycleResponse(c *domain.Cycle, now time.Time) CycleResponse {
	return CycleResponse{
		Cycle:              *c,
		ProgressPercentage: c.ProgressPercentage(),
		ReadyForSharing:    c.IsReadyForSharing(now),
	}
}

// ListCyclesResponse wraps a list of cycles.
type ListCyclesResponse struct {
	Cycles []CycleResponse `json:"cycles"`
}

func ToListCyclesResponse(cycles []domain.Cycle, now time.Time) ListCyclesResponse {
	out := make([]CycleResponse, len(cycles))
	for i := range cycles {
		out[i] = ToCycleResponse(&cycles[i], now)
	}
	return ListCyclesResponse{Cycles: out}
}

// ReadinessResponse answers whether a cycle may be shared out now.
type ReadinessResponse struct {
	CycleID         int64 `json:"cycleID"`
	ReadyForSharing bool  `json:"readyForSharing"`
}
