package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(db *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, group_id, user_id, type, amount, status, description, due_date,
	interest_rate, loan_term, remaining_balance, loan_id, loan_purpose, meeting_id,
	approved_by, approved_at, completed_at, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var txnType, status string
	err := row.Scan(
		&t.TransactionID,
		&t.GroupID,
		&t.UserID,
		&txnType,
		&t.Amount,
		&status,
		&t.Description,
		&t.DueDate,
		&t.InterestRate,
		&t.LoanTerm,
		&t.RemainingBalance,
		&t.LoanID,
		&t.LoanPurpose,
		&t.MeetingID,
		&t.ApprovedBy,
		&t.ApprovedAt,
		&t.CompletedAt,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	t.Type = domain.TransactionType(txnType)
	t.Status = domain.TransactionStatus(status)
	return &t, nil
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, q querier, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1`
	t, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("transaction %d not found", transactionID))
	}
	return t, nil
}

func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 FOR UPDATE`
	t, err := scanTransaction(r.db(tx).QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("transaction %d not found", transactionID))
	}
	return t, nil
}

func (r *PgxTransactionRepository) ListGroupTransactions(ctx context.Context, groupID int64, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := []any{groupID}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE group_id = $1`
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.AfterTime != nil && filter.AfterID != nil {
		args = append(args, *filter.AfterTime, *filter.AfterID)
		query += fmt.Sprintf(" AND (created_at, transaction_id) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, transaction_id DESC LIMIT $%d", len(args))

	return r.queryTransactions(ctx, r.Pool, query, args...)
}

func (r *PgxTransactionRepository) ListSharePurchases(ctx context.Context, tx pgx.Tx, groupID int64) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE group_id = $1 AND type = 'shares_purchase' AND status = 'completed'
		ORDER BY user_id ASC, transaction_id ASC`
	return r.queryTransactions(ctx, r.db(tx), query, groupID)
}

func (r *PgxTransactionRepository) ListMemberTransactions(ctx context.Context, groupID, userID int64) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE group_id = $1 AND user_id = $2
		ORDER BY created_at ASC, transaction_id ASC`
	return r.queryTransactions(ctx, r.Pool, query, groupID, userID)
}

func (r *PgxTransactionRepository) ListOverdueTransactions(ctx context.Context, now time.Time, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE status = 'pending' AND due_date IS NOT NULL AND due_date < $1
		ORDER BY due_date ASC
		LIMIT $2`
	return r.queryTransactions(ctx, r.Pool, query, now, limit)
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (group_id, user_id, type, amount, status, description, due_date,
			interest_rate, loan_term, remaining_balance, loan_id, loan_purpose, meeting_id,
			approved_by, approved_at, completed_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING ` + transactionColumns
	saved, err := scanTransaction(r.db(tx).QueryRow(ctx, query,
		txn.GroupID,
		txn.UserID,
		string(txn.Type),
		txn.Amount,
		string(txn.Status),
		txn.Description,
		txn.DueDate,
		txn.InterestRate,
		txn.LoanTerm,
		txn.RemainingBalance,
		txn.LoanID,
		txn.LoanPurpose,
		txn.MeetingID,
		txn.ApprovedBy,
		txn.ApprovedAt,
		txn.CompletedAt,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	))
	if err != nil {
		return nil, mapPgError(err, "failed to save transaction")
	}
	return saved, nil
}

func (r *PgxTransactionRepository) UpdateTransactionState(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	query := `
		UPDATE transactions SET
			status = $1, description = $2, remaining_balance = $3,
			approved_by = $4, approved_at = $5, completed_at = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE transaction_id = $9`
	tag, err := r.db(tx).Exec(ctx, query,
		string(txn.Status),
		txn.Description,
		txn.RemainingBalance,
		txn.ApprovedBy,
		txn.ApprovedAt,
		txn.CompletedAt,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
		txn.TransactionID,
	)
	if err != nil {
		return mapPgError(err, "failed to update transaction")
	}
	if tag.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, fmt.Sprintf("transaction %d not found", txn.TransactionID))
	}
	return nil
}
