package services

import (
	"context"

	"github.com/SscSPs/avec_backend/internal/core/domain"
)

// ReportingSvcFacade builds read-only reports over groups and the ledger
type ReportingSvcFacade interface {
	GetMemberAccountBook(ctx context.Context, actor domain.Actor, groupID, userID int64) (*domain.MemberAccountBook, error)
	GetSupervisionDashboard(ctx context.Context, actor domain.Actor) (*domain.SupervisionDashboard, error)
	GetTransactionStats(ctx context.Context, actor domain.Actor, period domain.StatsPeriod, groupID *int64) (*domain.TransactionStats, error)
	GetAlerts(ctx context.Context, actor domain.Actor) (*domain.Alerts, error)
}
