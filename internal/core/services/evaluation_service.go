package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/core/policy"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/utils/pagination"
)

type evaluationService struct {
	BaseService
	evaluationRepo portsrepo.EvaluationRepositoryFacade
	cycleRepo      portsrepo.CycleRepositoryWithTx
}

// NewEvaluationService creates a new community evaluation service with the provided options
func NewEvaluationService(evaluationRepo portsrepo.EvaluationRepositoryFacade, cycleRepo portsrepo.CycleRepositoryWithTx, options ...BaseOption) portssvc.EvaluationSvcFacade {
	return &evaluationService{
		BaseService:    newBaseService(options...),
		evaluationRepo: evaluationRepo,
		cycleRepo:      cycleRepo,
	}
}

var _ portssvc.EvaluationSvcFacade = (*evaluationService)(nil)

func (s *evaluationService) CreateEvaluation(ctx context.Context, actor domain.Actor, req dto.CreateEvaluationRequest) (*domain.CommunityEvaluation, error) {
	if err := policy.Authorize(policy.EvaluationCreate, actor, nil); err != nil {
		return nil, err
	}
	if req.CycleID != nil {
		cycle, err := s.cycleRepo.FindCycleByID(ctx, *req.CycleID)
		if err != nil {
			return nil, passThrough(err, "failed to get cycle")
		}
		if !cycle.AcceptsEvaluations() {
			return nil, domain.ErrNotInPreparation
		}
	}

	evaluation := domain.CommunityEvaluation{
		CycleID:           req.CycleID,
		VillageName:       strings.TrimSpace(req.VillageName),
		Population:        req.Population,
		MainActivities:    req.MainActivities,
		ExistingGroups:    req.ExistingGroups,
		NeedsAssessment:   req.NeedsAssessment,
		CommunityInterest: req.CommunityInterest,
		EvaluationDate:    s.Now(),
		EvaluatedBy:       actor.UserID,
	}
	if req.EvaluationDate != nil {
		evaluation.EvaluationDate = req.EvaluationDate.UTC()
	}

	created, err := s.evaluationRepo.SaveEvaluation(ctx, evaluation)
	if err != nil {
		s.LogError(ctx, err, "Failed to save community evaluation", slog.String("village", evaluation.VillageName))
		return nil, passThrough(err, "failed to create community evaluation")
	}
	s.LogInfo(ctx, "Community evaluation recorded",
		slog.Int64("evaluation_id", created.EvaluationID),
		slog.String("village", created.VillageName),
		slog.Bool("community_interest", created.CommunityInterest))
	return created, nil
}

func (s *evaluationService) GetEvaluation(ctx context.Context, actor domain.Actor, evaluationID int64) (*domain.CommunityEvaluation, error) {
	if err := policy.Authorize(policy.EvaluationView, actor, nil); err != nil {
		return nil, err
	}
	evaluation, err := s.evaluationRepo.FindEvaluationByID(ctx, evaluationID)
	if err != nil {
		return nil, passThrough(err, "failed to get community evaluation")
	}
	return evaluation, nil
}

func (s *evaluationService) ListEvaluations(ctx context.Context, actor domain.Actor, params dto.ListEvaluationsParams) ([]domain.CommunityEvaluation, error) {
	if err := policy.Authorize(policy.EvaluationView, actor, nil); err != nil {
		return nil, err
	}
	filter := domain.EvaluationFilter{
		Village: strings.TrimSpace(params.Village),
		CycleID: params.CycleID,
		Limit:   pagination.ClampLimit(params.Limit),
		Offset:  max(params.Offset, 0),
	}
	evaluations, err := s.evaluationRepo.ListEvaluations(ctx, filter)
	if err != nil {
		return nil, passThrough(err, "failed to list community evaluations")
	}
	return evaluations, nil
}
