package dto

import (
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
)

// CreateEvaluationRequest records a village survey. EvaluationDate defaults to now.
type CreateEvaluationRequest struct {
	CycleID           *int64     `json:"cycleID" binding:"omitempty,gt=0"`
	VillageName       string     `json:"villageName" binding:"required,max=100"`
	Population        *int       `json:"population" binding:"omitempty,gte=0"`
	MainActivities    string     `json:"mainActivities"`
	ExistingGroups    string     `json:"existingGroups"`
	NeedsAssessment   string     `json:"needsAssessment"`
	CommunityInterest bool       `json:"communityInterest"`
	EvaluationDate    *time.Time `json:"evaluationDate"`
}

// ListEvaluationsParams defines query parameters for listing evaluations.
type ListEvaluationsParams struct {
	Village string `form:"village"`
	CycleID *int64 `form:"cycle_id"`
	Limit   int    `form:"limit,default=20"`
	Offset  int    `form:"offset,default=0"`
}

// ListEvaluationsResponse wraps a page of evaluations.
type ListEvaluationsResponse struct {
	Evaluations []domain.CommunityEvaluation `json:"evaluations"`
}
