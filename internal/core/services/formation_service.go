package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/core/policy"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
)

type formationService struct {
	BaseService
	formationRepo portsrepo.FormationRepositoryFacade
	groupRepo     portsrepo.GroupRepositoryWithTx
}

// NewFormationService creates a new formation service with the provided options
func NewFormationService(formationRepo portsrepo.FormationRepositoryFacade, groupRepo portsrepo.GroupRepositoryWithTx, options ...BaseOption) portssvc.FormationSvcFacade {
	return &formationService{
		BaseService:   newBaseService(options...),
		formationRepo: formationRepo,
		groupRepo:     groupRepo,
	}
}

var _ portssvc.FormationSvcFacade = (*formationService)(nil)

func (s *formationService) CreateModule(ctx context.Context, actor domain.Actor, groupID int64, req dto.CreateFormationModuleRequest) (*domain.FormationModule, error) {
	group, subject, err := groupSubject(ctx, s.groupRepo, actor, groupID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.FormationCreate, actor, subject); err != nil {
		return nil, err
	}
	if group.IsShared() {
		return nil, domain.ErrGroupClosed
	}

	module := domain.FormationModule{
		GroupID:     groupID,
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
		Position:    req.Position,
		AuditFields: domain.NewAuditFields(actor.UserID, s.Now()),
	}
	created, err := s.formationRepo.SaveModule(ctx, module)
	if err != nil {
		s.LogError(ctx, err, "Failed to save formation module", slog.Int64("group_id", groupID))
		return nil, passThrough(err, "failed to create formation module")
	}
	s.LogInfo(ctx, "Formation module added",
		slog.Int64("module_id", created.ModuleID),
		slog.Int64("group_id", groupID),
		slog.Int("position", created.Position))
	return created, nil
}

func (s *formationService) ListModules(ctx context.Context, actor domain.Actor, groupID int64) ([]domain.FormationModule, error) {
	_, subject, err := groupSubject(ctx, s.groupRepo, actor, groupID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.FormationView, actor, subject); err != nil {
		return nil, err
	}
	modules, err := s.formationRepo.ListModules(ctx, groupID)
	if err != nil {
		return nil, passThrough(err, "failed to list formation modules")
	}
	return modules, nil
}

func (s *formationService) GetModule(ctx context.Context, actor domain.Actor, groupID, moduleID int64) (*domain.FormationModule, error) {
	_, subject, err := groupSubject(ctx, s.groupRepo, actor, groupID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.FormationView, actor, subject); err != nil {
		return nil, err
	}
	return s.moduleOf(ctx, groupID, moduleID)
}

func (s *formationService) CompleteModule(ctx context.Context, actor domain.Actor, groupID, moduleID int64) (*domain.FormationModule, error) {
	_, subject, err := groupSubject(ctx, s.groupRepo, actor, groupID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.FormationComplete, actor, subject); err != nil {
		return nil, err
	}
	module, err := s.moduleOf(ctx, groupID, moduleID)
	if err != nil {
		return nil, err
	}
	if err := module.Complete(actor.UserID, s.Now()); err != nil {
		return nil, err
	}
	if err := s.formationRepo.MarkModuleCompleted(ctx, *module); err != nil {
		s.LogError(ctx, err, "Failed to complete formation module", slog.Int64("module_id", moduleID))
		return nil, passThrough(err, "failed to complete formation module")
	}
	s.LogInfo(ctx, "Formation module completed",
		slog.Int64("module_id", moduleID),
		slog.Int64("group_id", groupID),
		slog.Int64("completed_by", actor.UserID))
	return module, nil
}

// moduleOf loads a module and hides modules of other groups behind not-found.
func (s *formationService) moduleOf(ctx context.Context, groupID, moduleID int64) (*domain.FormationModule, error) {
	module, err := s.formationRepo.FindModuleByID(ctx, moduleID)
	if err != nil {
		return nil, passThrough(err, "failed to get formation module")
	}
	if module.GroupID != groupID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("formation module %d not found in group %d", moduleID, groupID))
	}
	return module, nil
}
