package domain

import "time"

// CommunityEvaluation is the preparation-phase survey of a village, recorded
// before a group is formed there.
type CommunityEvaluation struct {
	EvaluationID      int64     `json:"evaluationID" db:"evaluation_id"`
	CycleID           *int64    `json:"cycleID,omitempty" db:"cycle_id"`
	VillageName       string    `json:"villageName" db:"village_name"`
	Population        *int      `json:"population,omitempty" db:"population"`
	MainActivities    string    `json:"mainActivities" db:"main_activities"`
	ExistingGroups    string    `json:"existingGroups" db:"existing_groups"`
	NeedsAssessment   string    `json:"needsAssessment" db:"needs_assessment"`
	CommunityInterest bool      `json:"communityInterest" db:"community_interest"`
	EvaluationDate    time.Time `json:"evaluationDate" db:"evaluation_date"`
	EvaluatedBy       int64     `json:"evaluatedBy" db:"evaluated_by"`
}

// AcceptsEvaluations is true while the cycle is still preparing its villages.
func (c Cycle) AcceptsEvaluations() bool {
	return c.Phase == PhasePreparation && !c.IsCompleted
}

// EvaluationFilter narrows evaluation listings. Zero values are ignored.
type EvaluationFilter struct {
	Village string
	CycleID *int64
	Limit   int
	Offset  int
}
