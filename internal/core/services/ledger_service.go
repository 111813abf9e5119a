package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/core/policy"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/utils/pagination"
	"github.com/SscSPs/avec_backend/pkg/metrics"
	"github.com/jackc/pgx/v5"
)

const aggregateTransaction = "transaction"

// ledgerService owns the transaction workflow and the capital side effects
// each step has on its group.
//
// Locks are always taken group first, then transaction rows, so that two
// workflow steps on the same group cannot deadlock.
type ledgerService struct {
	BaseService
	txnRepo   portsrepo.TransactionRepositoryWithTx
	groupRepo portsrepo.GroupRepositoryWithTx
	userRepo  portsrepo.UserReader
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(txnRepo portsrepo.TransactionRepositoryWithTx, groupRepo portsrepo.GroupRepositoryWithTx, userRepo portsrepo.UserReader, options ...BaseOption) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService: newBaseService(options...),
		txnRepo:     txnRepo,
		groupRepo:   groupRepo,
		userRepo:    userRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetTransactionByID(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, passThrough(err, "failed to get transaction")
	}
	group, err := s.groupRepo.FindGroupByID(ctx, txn.GroupID)
	if err != nil {
		return nil, passThrough(err, "failed to get transaction group")
	}
	member, err := isMember(ctx, s.groupRepo, nil, group.GroupID, actor.UserID)
	if err != nil {
		return nil, err
	}
	subject := policy.ForGroup(actor, group, member).WithSelf(actor, txn.UserID)
	if err := policy.Authorize(policy.TransactionView, actor, subject); err != nil {
		return nil, err
	}
	return txn, nil
}

// ListGroupTransactions pages a group's ledger newest first. The returned
// NextToken is set only when more rows follow.
func (s *ledgerService) ListGroupTransactions(ctx context.Context, actor domain.Actor, groupID int64, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, passThrough(err, "failed to get group")
	}
	member, err := isMember(ctx, s.groupRepo, nil, groupID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.TransactionView, actor, policy.ForGroup(actor, group, member)); err != nil {
		return nil, err
	}

	cursor, err := pagination.DecodeToken(params.NextToken)
	if err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}
	limit := pagination.ClampLimit(params.Limit)
	filter := domain.TransactionFilter{
		Type:   domain.TransactionType(params.Type),
		Status: domain.TransactionStatus(params.Status),
		UserID: params.UserID,
		Limit:  limit + 1,
	}
	if cursor != nil {
		filter.AfterTime = &cursor.CreatedAt
		filter.AfterID = &cursor.ID
	}

	txns, err := s.txnRepo.ListGroupTransactions(ctx, groupID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.Int64("group_id", groupID))
		return nil, passThrough(err, "failed to list transactions")
	}

	resp := &dto.ListTransactionsResponse{Transactions: txns}
	if len(txns) > limit {
		resp.Transactions = txns[:limit]
		last := resp.Transactions[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		resp.NextToken = &token
	}
	if resp.Transactions == nil {
		resp.Transactions = []domain.Transaction{}
	}
	return resp, nil
}

// CreateTransaction records a ledger entry. Share purchases and solidarity
// contributions are completed on creation and move the group totals at once;
// everything else waits for approval.
func (s *ledgerService) CreateTransaction(ctx context.Context, actor domain.Actor, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	txnType := domain.TransactionType(req.Type)
	if !txnType.Valid() {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown transaction type %q", req.Type))
	}
	if txnType == domain.ProfitSharing {
		return nil, apperrors.NewValidationFailedError("profit_sharing entries are only written by profit-sharing")
	}
	if !req.Amount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}
	userID := req.UserID
	if userID == 0 {
		userID = actor.UserID
	}

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.txnRepo.Rollback(ctx, tx)

	group, err := s.groupRepo.FindGroupByIDForUpdate(ctx, tx, req.GroupID)
	if err != nil {
		return nil, passThrough(err, "failed to load group")
	}
	actorIsMember, err := isMember(ctx, s.groupRepo, tx, group.GroupID, actor.UserID)
	if err != nil {
		return nil, err
	}
	subject := policy.ForGroup(actor, group, actorIsMember).WithSelf(actor, userID)
	if err := policy.Authorize(policy.TransactionCreate, actor, subject); err != nil {
		return nil, err
	}

	if group.IsShared() {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("group %d has already shared out its capital", group.GroupID))
	}
	if group.Status == domain.GroupInactive {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("group %d is inactive", group.GroupID))
	}
	if err := s.checkActiveMember(ctx, tx, group.GroupID, userID); err != nil {
		return nil, err
	}

	now := s.Now()
	txn := domain.Transaction{
		GroupID:     group.GroupID,
		UserID:      userID,
		Type:        txnType,
		Amount:      req.Amount,
		Status:      domain.StatusPending,
		Description: req.Description,
		DueDate:     req.DueDate,
		LoanTerm:    req.LoanTerm,
		LoanPurpose: req.LoanPurpose,
		MeetingID:   req.MeetingID,
		AuditFields: domain.NewAuditFields(actor.UserID, now),
	}
	if req.InterestRate != nil {
		rate := *req.InterestRate
		txn.InterestRate = &rate
	}

	if err := s.applyTypeRules(ctx, tx, group, &txn, req); err != nil {
		return nil, err
	}

	if txnType.SkipsApproval() {
		txn.Status = domain.StatusCompleted
		txn.CompletedAt = &now
		group.ApplyCapital(txn.CapitalEffect())
		group.Touch(actor.UserID, now)
		if err := s.groupRepo.UpdateGroup(ctx, tx, *group); err != nil {
			return nil, passThrough(err, "failed to update group totals")
		}
	}

	created, err := s.txnRepo.SaveTransaction(ctx, tx, txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to save transaction",
			slog.Int64("group_id", group.GroupID),
			slog.String("type", string(txnType)))
		return nil, passThrough(err, "failed to create transaction")
	}
	if err := s.RecordEvent(ctx, tx, aggregateTransaction, created.TransactionID, domain.EventTransactionCreated, created); err != nil {
		return nil, err
	}
	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction creation: %w", err)
	}

	metrics.RecordLedger(string(created.Type), string(created.Status))
	s.LogInfo(ctx, "Transaction created",
		slog.Int64("transaction_id", created.TransactionID),
		slog.Int64("group_id", created.GroupID),
		slog.String("type", string(created.Type)),
		slog.String("status", string(created.Status)),
		slog.String("amount", created.Amount.String()))
	return created, nil
}

// checkActiveMember requires userID to be an active user holding a membership in the group.
func (s *ledgerService) checkActiveMember(ctx context.Context, tx pgx.Tx, groupID, userID int64) error {
	member, err := isMember(ctx, s.groupRepo, tx, groupID, userID)
	if err != nil {
		return err
	}
	if !member {
		return apperrors.Wrap(apperrors.ErrNotAMember, fmt.Sprintf("user %d does not belong to group %d", userID, groupID))
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return passThrough(err, "failed to load user")
	}
	if !user.IsActive() {
		return apperrors.NewValidationFailedError(fmt.Sprintf("user %d is inactive", userID))
	}
	return nil
}

// applyTypeRules validates and fills the fields specific to each entry type.
func (s *ledgerService) applyTypeRules(ctx context.Context, tx pgx.Tx, group *domain.Group, txn *domain.Transaction, req dto.CreateTransactionRequest) error {
	switch txn.Type {
	case domain.SharesPurchase:
		return group.ValidateShareAmount(txn.Amount)

	case domain.Loan:
		if group.MaxLoanAmount.IsPositive() && txn.Amount.GreaterThan(group.MaxLoanAmount) {
			return apperrors.NewValidationFailedError(fmt.Sprintf("loan amount %s exceeds the group maximum of %s", txn.Amount, group.MaxLoanAmount))
		}
		s.fillLoanTerms(group, txn)

	case domain.LoanRepayment:
		if req.LoanID == nil {
			return apperrors.NewValidationFailedError("loan_repayment requires loanID")
		}
		loan, err := s.txnRepo.FindTransactionByIDForUpdate(ctx, tx, *req.LoanID)
		if err != nil {
			return passThrough(err, "failed to load repaid loan")
		}
		if loan.Type != domain.Loan || loan.GroupID != txn.GroupID || loan.UserID != txn.UserID {
			return apperrors.NewValidationFailedError(fmt.Sprintf("transaction %d is not a loan of this member in this group", loan.TransactionID))
		}
		if loan.Status != domain.StatusApproved && loan.Status != domain.StatusCompleted {
			return apperrors.NewValidationFailedError(fmt.Sprintf("loan %d has not been granted", loan.TransactionID))
		}
		loanID := loan.TransactionID
		txn.LoanID = &loanID
		s.fillLoanTerms(group, txn)
	}
	return nil
}

// fillLoanTerms defaults interest and term from the group settings.
func (s *ledgerService) fillLoanTerms(group *domain.Group, txn *domain.Transaction) {
	if txn.InterestRate == nil {
		rate := group.LoanInterestRate
		txn.InterestRate = &rate
	}
	if txn.LoanTerm == nil {
		term := group.LoanDurationMonths
		txn.LoanTerm = &term
	}
}

// lockForWorkflow locks the transaction's group, then the transaction row.
func (s *ledgerService) lockForWorkflow(ctx context.Context, tx pgx.Tx, transactionID int64) (*domain.Transaction, *domain.Group, error) {
	peek, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, nil, passThrough(err, "failed to get transaction")
	}
	group, err := s.groupRepo.FindGroupByIDForUpdate(ctx, tx, peek.GroupID)
	if err != nil {
		return nil, nil, passThrough(err, "failed to load group")
	}
	txn, err := s.txnRepo.FindTransactionByIDForUpdate(ctx, tx, transactionID)
	if err != nil {
		return nil, nil, passThrough(err, "failed to lock transaction")
	}
	return txn, group, nil
}

// ApproveTransaction moves a pending entry to approved and applies its capital
// effect to the group in the same unit of work.
func (s *ledgerService) ApproveTransaction(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error) {
	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.txnRepo.Rollback(ctx, tx)

	txn, group, err := s.lockForWorkflow(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.TransactionApprove, actor, policy.ForGroup(actor, group, false)); err != nil {
		return nil, err
	}
	if group.IsShared() {
		return nil, apperrors.NewInvalidTransitionError(fmt.Sprintf("group %d has already shared out its capital", group.GroupID))
	}

	now := s.Now()
	if err := txn.Approve(actor.UserID, now); err != nil {
		return nil, err
	}
	if effect := txn.CapitalEffect(); !effect.IsZero() {
		group.ApplyCapital(effect)
		group.Touch(actor.UserID, now)
		if err := s.groupRepo.UpdateGroup(ctx, tx, *group); err != nil {
			return nil, passThrough(err, "failed to update group totals")
		}
	}
	if err := s.txnRepo.UpdateTransactionState(ctx, tx, *txn); err != nil {
		return nil, passThrough(err, "failed to approve transaction")
	}
	if err := s.RecordEvent(ctx, tx, aggregateTransaction, txn.TransactionID, domain.EventTransactionApproved, txn); err != nil {
		return nil, err
	}
	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	metrics.RecordLedger(string(txn.Type), string(txn.Status))
	s.LogInfo(ctx, "Transaction approved",
		slog.Int64("transaction_id", txn.TransactionID),
		slog.Int64("group_id", txn.GroupID),
		slog.String("type", string(txn.Type)))
	return txn, nil
}

// RejectTransaction closes a pending entry and appends the reason to its description.
func (s *ledgerService) RejectTransaction(ctx context.Context, actor domain.Actor, transactionID int64, reason string) (*domain.Transaction, error) {
	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.txnRepo.Rollback(ctx, tx)

	txn, group, err := s.lockForWorkflow(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.TransactionReject, actor, policy.ForGroup(actor, group, false)); err != nil {
		return nil, err
	}

	if err := txn.Reject(actor.UserID, reason, s.Now()); err != nil {
		return nil, err
	}
	if err := s.txnRepo.UpdateTransactionState(ctx, tx, *txn); err != nil {
		return nil, passThrough(err, "failed to reject transaction")
	}
	payload := map[string]any{"transactionID": txn.TransactionID, "groupID": txn.GroupID, "reason": reason}
	if err := s.RecordEvent(ctx, tx, aggregateTransaction, txn.TransactionID, domain.EventTransactionRejected, payload); err != nil {
		return nil, err
	}
	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit rejection: %w", err)
	}

	metrics.RecordLedger(string(txn.Type), string(txn.Status))
	s.LogInfo(ctx, "Transaction rejected",
		slog.Int64("transaction_id", txn.TransactionID),
		slog.Int64("group_id", txn.GroupID))
	return txn, nil
}

// CompleteTransaction moves an approved entry to completed. Completing a
// repayment pays down the referenced loan, never below zero.
func (s *ledgerService) CompleteTransaction(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error) {
	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.txnRepo.Rollback(ctx, tx)

	txn, group, err := s.lockForWorkflow(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.TransactionComplete, actor, policy.ForGroup(actor, group, false)); err != nil {
		return nil, err
	}

	now := s.Now()
	if err := txn.Complete(actor.UserID, now); err != nil {
		return nil, err
	}
	if txn.Type == domain.LoanRepayment && txn.LoanID != nil {
		loan, err := s.txnRepo.FindTransactionByIDForUpdate(ctx, tx, *txn.LoanID)
		if err != nil {
			return nil, passThrough(err, "failed to load repaid loan")
		}
		remaining := loan.ApplyRepayment(txn.Amount)
		loan.Touch(actor.UserID, now)
		if err := s.txnRepo.UpdateTransactionState(ctx, tx, *loan); err != nil {
			return nil, passThrough(err, "failed to update loan balance")
		}
		txn.RemainingBalance = &remaining
	}
	if err := s.txnRepo.UpdateTransactionState(ctx, tx, *txn); err != nil {
		return nil, passThrough(err, "failed to complete transaction")
	}
	if err := s.RecordEvent(ctx, tx, aggregateTransaction, txn.TransactionID, domain.EventTransactionCompleted, txn); err != nil {
		return nil, err
	}
	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit completion: %w", err)
	}

	metrics.RecordLedger(string(txn.Type), string(txn.Status))
	s.LogInfo(ctx, "Transaction completed",
		slog.Int64("transaction_id", txn.TransactionID),
		slog.Int64("group_id", txn.GroupID),
		slog.String("type", string(txn.Type)))
	return txn, nil
}
