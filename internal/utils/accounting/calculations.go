package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places payouts are rounded to.
const MoneyPlaces = 2

// SharesFor converts a purchased amount into a share count for the given share value.
func SharesFor(amount, shareValue decimal.Decimal) (decimal.Decimal, error) {
	if !shareValue.IsPositive() {
		return decimal.Zero, fmt.Errorf("share value must be positive, got %s", shareValue)
	}
	return amount.Div(shareValue), nil
}

// MemberShares folds completed share purchases into per-member share counts.
// Entries of other types or statuses are ignored. The result is sorted by user id.
func MemberShares(purchases []domain.Transaction, shareValue decimal.Decimal) ([]domain.MemberShares, error) {
	byUser := make(map[int64]decimal.Decimal)
	for _, txn := range purchases {
		if txn.Type != domain.SharesPurchase || txn.Status != domain.StatusCompleted {
			continue
		}
		shares, err := SharesFor(txn.Amount, shareValue)
		if err != nil {
			return nil, err
		}
		byUser[txn.UserID] = byUser[txn.UserID].Add(shares)
	}

	result := make([]domain.MemberShares, 0, len(byUser))
	for userID, shares := range byUser {
		result = append(result, domain.MemberShares{UserID: userID, Shares: shares})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

// TotalShares sums the share counts of all members.
func TotalShares(members []domain.MemberShares) decimal.Decimal {
	total := decimal.Zero
	for _, m := range members {
		total = total.Add(m.Shares)
	}
	return total
}

// SharesOf returns the share count for userID, zero if absent.
func SharesOf(members []domain.MemberShares, userID int64) decimal.Decimal {
	for _, m := range members {
		if m.UserID == userID {
			return m.Shares
		}
	}
	return decimal.Zero
}

// AllocatePayouts splits totalCapital across members in proportion to their shares.
//
// Each payout is shares * totalCapital / totalShares truncated to MoneyPlaces.
// The cents lost to truncation go one by one to the largest shareholders
// (ties broken by lowest user id), so the payouts always sum to totalCapital.
// With no shares at all every payout is zero.
func AllocatePayouts(totalCapital decimal.Decimal, members []domain.MemberShares) []domain.Payout {
	payouts := make([]domain.Payout, len(members))
	totalShares := TotalShares(members)

	for i, m := range members {
		payouts[i] = domain.Payout{UserID: m.UserID, Shares: m.Shares, Amount: decimal.Zero}
	}
	if !totalShares.IsPositive() || !totalCapital.IsPositive() {
		return payouts
	}

	distributed := decimal.Zero
	for i, m := range members {
		amount := m.Shares.Mul(totalCapital).Div(totalShares).Truncate(MoneyPlaces)
		payouts[i].Amount = amount
		distributed = distributed.Add(amount)
	}

	unit := decimal.New(1, -MoneyPlaces)
	residual := totalCapital.Round(MoneyPlaces).Sub(distributed)
	if !residual.IsPositive() {
		return payouts
	}

	order := make([]int, 0, len(members))
	for i, m := range members {
		if m.Shares.IsPositive() {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		left, right := members[order[a]], members[order[b]]
		if !left.Shares.Equal(right.Shares) {
			return left.Shares.GreaterThan(right.Shares)
		}
		return left.UserID < right.UserID
	})

	for k := 0; residual.IsPositive() && len(order) > 0; k++ {
		i := order[k%len(order)]
		payouts[i].Amount = payouts[i].Amount.Add(unit)
		residual = residual.Sub(unit)
	}
	return payouts
}
