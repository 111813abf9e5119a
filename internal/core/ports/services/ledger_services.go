package services

import (
	"context"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc defines read operations on transactions
type LedgerReaderSvc interface {
	GetTransactionByID(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error)
	ListGroupTransactions(ctx context.Context, actor domain.Actor, groupID int64, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// LedgerWriterSvc defines the ledger workflow
type LedgerWriterSvc interface {
	CreateTransaction(ctx context.Context, actor domain.Actor, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	ApproveTransaction(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error)
	RejectTransaction(ctx context.Context, actor domain.Actor, transactionID int64, reason string) (*domain.Transaction, error)
	CompleteTransaction(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}

// CapitalSvcFacade exposes share accounting derived from the ledger
type CapitalSvcFacade interface {
	GetGroupCapital(ctx context.Context, actor domain.Actor, groupID int64) (*domain.GroupCapital, error)
	TotalShares(ctx context.Context, actor domain.Actor, groupID int64) (decimal.Decimal, error)
	MemberShares(ctx context.Context, actor domain.Actor, groupID, userID int64) (decimal.Decimal, error)
}

// SharingSvcFacade computes and executes end-of-cycle profit-sharing
type SharingSvcFacade interface {
	PreviewSharing(ctx context.Context, actor domain.Actor, groupID int64) (*domain.SharingPlan, error)

	// ExecuteSharing writes one profit_sharing entry per member with a payout
	// and closes the group and its cycle. It runs at most once per group.
	ExecuteSharing(ctx context.Context, actor domain.Actor, groupID int64) (*domain.SharingPlan, error)
}

// ExecutionLocker guards an operation across API instances.
type ExecutionLocker interface {
	Acquire(ctx context.Context, id int64) bool
	Release(ctx context.Context, id int64)
}
