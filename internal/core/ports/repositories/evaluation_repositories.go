package repositories

import (
	"context"

	"github.com/SscSPs/avec_backend/internal/core/domain"
)

// EvaluationRepositoryFacade defines persistence for community evaluations
type EvaluationRepositoryFacade interface {
	SaveEvaluation(ctx context.Context, evaluation domain.CommunityEvaluation) (*domain.CommunityEvaluation, error)
	FindEvaluationByID(ctx context.Context, evaluationID int64) (*domain.CommunityEvaluation, error)

	// ListEvaluations returns evaluations newest first.
	ListEvaluations(ctx context.Context, filter domain.EvaluationFilter) ([]domain.CommunityEvaluation, error)
}
