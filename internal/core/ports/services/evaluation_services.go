package services

import (
	"context"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/dto"
)

// EvaluationSvcFacade records the village surveys made before groups are formed
type EvaluationSvcFacade interface {
	CreateEvaluation(ctx context.Context, actor domain.Actor, req dto.CreateEvaluationRequest) (*domain.CommunityEvaluation, error)
	GetEvaluation(ctx context.Context, actor domain.Actor, evaluationID int64) (*domain.CommunityEvaluation, error)
	ListEvaluations(ctx context.Context, actor domain.Actor, params dto.ListEvaluationsParams) ([]domain.CommunityEvaluation, error)
}
