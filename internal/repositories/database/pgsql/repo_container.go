package pgsql

import (
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CycleRepo:       newPgxCycleRepository(dbPool),
		GroupRepo:       newPgxGroupRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
		MeetingRepo:     newPgxMeetingRepository(dbPool),
		FormationRepo:   newPgxFormationRepository(dbPool),
		EvaluationRepo:  newPgxEvaluationRepository(dbPool),
		ReportingRepo:   newReportingRepository(dbPool),
		OutboxRepo:      newPgxOutboxRepository(dbPool),
	}
}
