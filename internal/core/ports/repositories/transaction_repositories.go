package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionReader defines read operations on the ledger
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)

	// ListGroupTransactions pages a group's ledger by created_at DESC, id DESC.
	ListGroupTransactions(ctx context.Context, groupID int64, filter domain.TransactionFilter) ([]domain.Transaction, error)

	// ListSharePurchases returns the completed shares_purchase entries of a group.
	// A nil tx runs against the pool.
	ListSharePurchases(ctx context.Context, tx pgx.Tx, groupID int64) ([]domain.Transaction, error)

	// ListMemberTransactions returns every entry of one member in one group.
	ListMemberTransactions(ctx context.Context, groupID, userID int64) ([]domain.Transaction, error)

	// ListOverdueTransactions returns pending entries whose due date is before now.
	ListOverdueTransactions(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations on the ledger. All run inside the caller's transaction.
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) (*domain.Transaction, error)
	FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID int64) (*domain.Transaction, error)

	// UpdateTransactionState writes the mutable workflow columns: status, description,
	// remaining balance, approval and completion stamps.
	UpdateTransactionState(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error
}

// TransactionRepositoryWithTx combines ledger operations with transaction management
type TransactionRepositoryWithTx interface {
	TransactionManager
	TransactionReader
	TransactionWriter
}
