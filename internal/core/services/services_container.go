package services

import (
	"time"

	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/platform/config"
)

// ContainerOption adds optional infrastructure to the service container.
type ContainerOption func(*containerDeps)

type containerDeps struct {
	sharingLock portssvc.ExecutionLocker
}

// WithExecutionLocker guards profit-sharing executions with a distributed lock.
func WithExecutionLocker(locker portssvc.ExecutionLocker) ContainerOption {
	return func(d *containerDeps) {
		d.sharingLock = locker
	}
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ContainerOption) *portssvc.ServiceContainer {
	deps := &containerDeps{}
	for _, option := range options {
		option(deps)
	}

	// Every writing service records its domain events in the outbox.
	base := []BaseOption{}
	if repos.OutboxRepo != nil {
		base = append(base, WithOutbox(repos.OutboxRepo))
	}

	container := &portssvc.ServiceContainer{}
	container.Cycle = NewCycleService(repos.CycleRepo, base...)
	container.Group = NewGroupService(repos.GroupRepo, repos.CycleRepo, base...)
	container.Membership = NewMembershipService(repos.GroupRepo, repos.UserRepo, base...)
	container.Ledger = NewLedgerService(repos.TransactionRepo, repos.GroupRepo, repos.UserRepo, base...)
	container.Capital = NewCapitalService(repos.GroupRepo, repos.TransactionRepo, base...)

	sharingOptions := []SharingServiceOption{WithSharingBase(base...)}
	if deps.sharingLock != nil {
		sharingOptions = append(sharingOptions, WithSharingLock(deps.sharingLock))
	}
	container.Sharing = NewSharingService(repos.GroupRepo, repos.CycleRepo, repos.TransactionRepo, sharingOptions...)

	container.Meeting = NewMeetingService(repos.MeetingRepo, repos.GroupRepo, base...)
	container.Formation = NewFormationService(repos.FormationRepo, repos.GroupRepo, base...)
	container.Evaluation = NewEvaluationService(repos.EvaluationRepo, repos.CycleRepo, base...)
	container.Reporting = NewReportingService(
		repos.ReportingRepo,
		repos.GroupRepo,
		repos.CycleRepo,
		repos.TransactionRepo,
		WithAlertWindow(time.Duration(cfg.AlertCycleEndingDays)*24*time.Hour),
		WithReportingBase(base...),
	)

	container.User = NewUserService(repos.UserRepo, base...)
	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
