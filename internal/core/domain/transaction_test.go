package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TestCanTransition(t *testing.T) {
	all := []domain.TransactionStatus{domain.StatusPending, domain.StatusApproved, domain.StatusCompleted, domain.StatusRejected}
	allowed := map[[2]domain.TransactionStatus]bool{
		{domain.StatusPending, domain.StatusApproved}:   true,
		{domain.StatusPending, domain.StatusRejected}:   true,
		{domain.StatusApproved, domain.StatusCompleted}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]domain.TransactionStatus{from, to}]
			assert.Equal(t, want, domain.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.True(t, domain.StatusCompleted.IsTerminal())
	assert.True(t, domain.StatusRejected.IsTerminal())
	assert.False(t, domain.StatusPending.IsTerminal())
}

func TestTransaction_Approve(t *testing.T) {
	now := time.Now()

	t.Run("loan sets remaining balance", func(t *testing.T) {
		txn := domain.Transaction{Type: domain.Loan, Amount: decimal.NewFromInt(5000), Status: domain.StatusPending}
		require.NoError(t, txn.Approve(7, now))
		assert.Equal(t, domain.StatusApproved, txn.Status)
		assert.Equal(t, int64(7), *txn.ApprovedBy)
		assert.Equal(t, now, *txn.ApprovedAt)
		assert.True(t, decimal.NewFromInt(5000).Equal(*txn.RemainingBalance))
	})

	for _, status := range []domain.TransactionStatus{domain.StatusApproved, domain.StatusCompleted, domain.StatusRejected} {
		t.Run("rejects "+string(status), func(t *testing.T) {
			txn := domain.Transaction{Type: domain.Interest, Amount: decimal.NewFromInt(10), Status: status}
			err := txn.Approve(1, now)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
			assert.Equal(t, status, txn.Status)
		})
	}
}

func TestTransaction_Reject(t *testing.T) {
	now := time.Now()
	txn := domain.Transaction{Type: domain.Loan, Status: domain.StatusPending, Description: "seed money"}

	require.NoError(t, txn.Reject(2, "no guarantor", now))
	assert.Equal(t, domain.StatusRejected, txn.Status)
	assert.Equal(t, "seed money\n\nRejection reason: no guarantor", txn.Description)

	assert.ErrorIs(t, txn.Reject(2, "again", now), apperrors.ErrInvalidTransition)
	assert.ErrorIs(t, txn.Complete(2, now), apperrors.ErrInvalidTransition)
}

func TestTransaction_RejectWithoutReasonKeepsDescription(t *testing.T) {
	txn := domain.Transaction{Status: domain.StatusPending, Description: "as is"}
	require.NoError(t, txn.Reject(2, "", time.Now()))
	assert.Equal(t, "as is", txn.Description)
}

func TestTransaction_Complete(t *testing.T) {
	now := time.Now()
	pending := domain.Transaction{Status: domain.StatusPending}
	assert.ErrorIs(t, pending.Complete(1, now), apperrors.ErrInvalidTransition)

	approved := domain.Transaction{Status: domain.StatusApproved}
	require.NoError(t, approved.Complete(1, now))
	assert.Equal(t, domain.StatusCompleted, approved.Status)
	assert.Equal(t, now, *approved.CompletedAt)
}

func TestTransaction_ApplyRepayment(t *testing.T) {
	tests := []struct {
		name      string
		loan      domain.Transaction
		repayment decimal.Decimal
		want      decimal.Decimal
	}{
		{
			name:      "partial repayment",
			loan:      domain.Transaction{Amount: decimal.NewFromInt(5000), RemainingBalance: decimalPtr(decimal.NewFromInt(5000))},
			repayment: decimal.NewFromInt(2000),
			want:      decimal.NewFromInt(3000),
		},
		{
			name:      "over repayment floors at zero",
			loan:      domain.Transaction{Amount: decimal.NewFromInt(5000), RemainingBalance: decimalPtr(decimal.NewFromInt(1000))},
			repayment: decimal.NewFromInt(2500),
			want:      decimal.Zero,
		},
		{
			name:      "missing balance starts from principal",
			loan:      domain.Transaction{Amount: decimal.NewFromInt(800)},
			repayment: decimal.NewFromInt(300),
			want:      decimal.NewFromInt(500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.loan.ApplyRepayment(tt.repayment)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
			assert.True(t, tt.want.Equal(*tt.loan.RemainingBalance))
		})
	}
}

func TestTransaction_CapitalEffect(t *testing.T) {
	amount := decimal.NewFromInt(1200)
	tests := []struct {
		txnType    domain.TransactionType
		savings    decimal.Decimal
		loans      decimal.Decimal
		solidarity decimal.Decimal
	}{
		{domain.SharesPurchase, amount, decimal.Zero, decimal.Zero},
		{domain.Interest, amount, decimal.Zero, decimal.Zero},
		{domain.Solidarity, decimal.Zero, decimal.Zero, amount},
		{domain.Loan, decimal.Zero, amount, decimal.Zero},
		{domain.LoanRepayment, decimal.Zero, decimal.Zero, decimal.Zero},
		{domain.ProfitSharing, decimal.Zero, decimal.Zero, decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(string(tt.txnType), func(t *testing.T) {
			effect := domain.Transaction{Type: tt.txnType, Amount: amount}.CapitalEffect()
			assert.True(t, tt.savings.Equal(effect.Savings))
			assert.True(t, tt.loans.Equal(effect.Loans))
			assert.True(t, tt.solidarity.Equal(effect.Solidarity))
		})
	}
}

func TestTransaction_IsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	assert.True(t, domain.Transaction{Status: domain.StatusPending, DueDate: &past}.IsOverdue(now))
	assert.False(t, domain.Transaction{Status: domain.StatusPending, DueDate: &future}.IsOverdue(now))
	assert.False(t, domain.Transaction{Status: domain.StatusApproved, DueDate: &past}.IsOverdue(now))
	assert.False(t, domain.Transaction{Status: domain.StatusPending}.IsOverdue(now))
}
