package services

import (
	"context"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/dto"
)

// FormationSvcFacade manages a group's training curriculum
type FormationSvcFacade interface {
	CreateModule(ctx context.Context, actor domain.Actor, groupID int64, req dto.CreateFormationModuleRequest) (*domain.FormationModule, error)
	ListModules(ctx context.Context, actor domain.Actor, groupID int64) ([]domain.FormationModule, error)
	GetModule(ctx context.Context, actor domain.Actor, groupID, moduleID int64) (*domain.FormationModule, error)

	// CompleteModule stamps the module as taught. Completing twice is an invalid transition.
	CompleteModule(ctx context.Context, actor domain.Actor, groupID, moduleID int64) (*domain.FormationModule, error)
}
