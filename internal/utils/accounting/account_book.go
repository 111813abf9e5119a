package accounting

import (
	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// counted is true for entries that have moved group capital.
func counted(txn domain.Transaction) bool {
	return txn.Status == domain.StatusApproved || txn.Status == domain.StatusCompleted
}

// AccountBook folds one member's ledger entries into their account book.
// Share purchases and solidarity count once completed; loans, interest and
// repayments count from approval on. Outstanding loans sum the remaining
// balance of every granted loan.
func AccountBook(groupID, userID int64, shareValue decimal.Decimal, txns []domain.Transaction) domain.MemberAccountBook {
	book := domain.MemberAccountBook{
		GroupID:           groupID,
		UserID:            userID,
		SharesPurchased:   decimal.Zero,
		ShareCount:        decimal.Zero,
		Interest:          decimal.Zero,
		LoansTaken:        decimal.Zero,
		LoansRepaid:       decimal.Zero,
		OutstandingLoans:  decimal.Zero,
		SolidarityPaid:    decimal.Zero,
		ProfitSharingPaid: decimal.Zero,
	}

	for _, txn := range txns {
		if txn.UserID != userID || txn.GroupID != groupID {
			continue
		}
		if txn.Status == domain.StatusPending {
			book.PendingTransaction++
			continue
		}
		if !counted(txn) {
			continue
		}
		switch txn.Type {
		case domain.SharesPurchase:
			if txn.Status == domain.StatusCompleted {
				book.SharesPurchased = book.SharesPurchased.Add(txn.Amount)
			}
		case domain.Interest:
			book.Interest = book.Interest.Add(txn.Amount)
		case domain.Loan:
			book.LoansTaken = book.LoansTaken.Add(txn.Amount)
			remaining := txn.Amount
			if txn.RemainingBalance != nil {
				remaining = *txn.RemainingBalance
			}
			book.OutstandingLoans = book.OutstandingLoans.Add(remaining)
		case domain.LoanRepayment:
			if txn.Status == domain.StatusCompleted {
				book.LoansRepaid = book.LoansRepaid.Add(txn.Amount)
			}
		case domain.Solidarity:
			if txn.Status == domain.StatusCompleted {
				book.SolidarityPaid = book.SolidarityPaid.Add(txn.Amount)
			}
		case domain.ProfitSharing:
			book.ProfitSharingPaid = book.ProfitSharingPaid.Add(txn.Amount)
		}
	}

	if shareValue.IsPositive() {
		book.ShareCount = book.SharesPurchased.Div(shareValue)
	}
	return book
}

// Average divides total by count, rounded to MoneyPlaces; zero when count is zero.
func Average(total decimal.Decimal, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(count)).Round(MoneyPlaces)
}
