package services

import (
	"context"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/dto"
)

// CycleReaderSvc defines read operations for cycles
type CycleReaderSvc interface {
	GetCycleByID(ctx context.Context, actor domain.Actor, cycleID int64) (*domain.Cycle, error)
	ListCycles(ctx context.Context, actor domain.Actor, params dto.ListCyclesParams) ([]domain.Cycle, error)

	// IsReadyForSharing reports whether the cycle's end date has been reached.
	IsReadyForSharing(ctx context.Context, actor domain.Actor, cycleID int64) (bool, error)
}

// CycleWriterSvc defines write operations for cycles
type CycleWriterSvc interface {
	CreateCycle(ctx context.Context, actor domain.Actor, req dto.CreateCycleRequest) (*domain.Cycle, error)
	UpdateCycle(ctx context.Context, actor domain.Actor, cycleID int64, req dto.UpdateCycleRequest) (*domain.Cycle, error)

	// DeleteCycle fails with a conflict while any of its groups is active.
	DeleteCycle(ctx context.Context, actor domain.Actor, cycleID int64) error

	// AdvancePhase moves the cycle one phase forward.
	AdvancePhase(ctx context.Context, actor domain.Actor, cycleID int64) (*domain.Cycle, error)
}

// CycleSvcFacade combines all cycle-related service interfaces
type CycleSvcFacade interface {
	CycleReaderSvc
	CycleWriterSvc
}
