package repositories

import (
	"context"

	"github.com/SscSPs/avec_backend/internal/core/domain"
)

// FormationRepositoryFacade defines persistence for group training modules
type FormationRepositoryFacade interface {
	// SaveModule inserts the module. A zero position appends it after the group's last module.
	SaveModule(ctx context.Context, module domain.FormationModule) (*domain.FormationModule, error)
	FindModuleByID(ctx context.Context, moduleID int64) (*domain.FormationModule, error)

	// ListModules returns a group's curriculum ordered by position.
	ListModules(ctx context.Context, groupID int64) ([]domain.FormationModule, error)

	// MarkModuleCompleted stores the completion stamp. It yields apperrors.ErrConflict
	// when the row was completed in the meantime.
	MarkModuleCompleted(ctx context.Context, module domain.FormationModule) error
}
