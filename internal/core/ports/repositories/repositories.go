package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CycleRepo       CycleRepositoryWithTx
	GroupRepo       GroupRepositoryWithTx
	TransactionRepo TransactionRepositoryWithTx
	UserRepo        UserRepositoryFacade
	MeetingRepo     MeetingRepositoryFacade
	FormationRepo   FormationRepositoryFacade
	EvaluationRepo  EvaluationRepositoryFacade
	ReportingRepo   ReportingRepositoryFacade
	OutboxRepo      OutboxRepositoryFacade
}
