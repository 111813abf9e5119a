package dto

import (
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest records a ledger entry. UserID defaults to the caller.
type CreateTransactionRequest struct {
	GroupID      int64            `json:"groupID" binding:"required,gt=0"`
	UserID       int64            `json:"userID" binding:"gte=0"`
	Type         string           `json:"type" binding:"required,oneof=shares_purchase loan loan_repayment solidarity interest profit_sharing"`
	Amount       decimal.Decimal  `json:"amount" binding:"positiveamount"`
	Description  string           `json:"description" binding:"max=2000"`
	DueDate      *time.Time       `json:"dueDate"`
	InterestRate *decimal.Decimal `json:"interestRate" binding:"omitempty,nonnegativeamount"`
	LoanTerm     *int             `json:"loanTerm" binding:"omitempty,min=1,max=60"`
	LoanID       *int64           `json:"loanID" binding:"omitempty,gt=0"`
	LoanPurpose  string           `json:"loanPurpose" binding:"max=500"`
	MeetingID    *int64           `json:"meetingID" binding:"omitempty,gt=0"`
}

// RejectTransactionRequest carries the optional rejection reason.
type RejectTransactionRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// ListTransactionsParams defines query parameters for a group's ledger.
type ListTransactionsParams struct {
	Type      string `form:"type" binding:"omitempty,oneof=shares_purchase loan loan_repayment solidarity interest profit_sharing"`
	Status    string `form:"status" binding:"omitempty,oneof=pending approved completed rejected"`
	UserID    *int64 `form:"userID"`
	Limit     int    `form:"limit,default=20"`
	NextToken string `form:"nextToken"`
}

// ListTransactionsResponse is a page of ledger entries.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextToken    *string              `json:"nextToken,omitempty"`
}
