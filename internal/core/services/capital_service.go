package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/core/policy"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/utils/accounting"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// capitalService derives share counts from completed share purchases at query time.
type capitalService struct {
	BaseService
	groupRepo portsrepo.GroupRepositoryWithTx
	txnRepo   portsrepo.TransactionReader
}

// NewCapitalService creates a new capital service with the provided options
func NewCapitalService(groupRepo portsrepo.GroupRepositoryWithTx, txnRepo portsrepo.TransactionReader, options ...BaseOption) portssvc.CapitalSvcFacade {
	return &capitalService{
		BaseService: newBaseService(options...),
		groupRepo:   groupRepo,
		txnRepo:     txnRepo,
	}
}

var _ portssvc.CapitalSvcFacade = (*capitalService)(nil)

// memberShares folds the group's completed share purchases into per-member counts.
func memberShares(ctx context.Context, txnRepo portsrepo.TransactionReader, tx pgx.Tx, group *domain.Group) ([]domain.MemberShares, error) {
	purchases, err := txnRepo.ListSharePurchases(ctx, tx, group.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list share purchases: %w", err)
	}
	shares, err := accounting.MemberShares(purchases, group.ShareValue)
	if err != nil {
		return nil, fmt.Errorf("failed to count shares of group %d: %w", group.GroupID, err)
	}
	return shares, nil
}

// authorizedShares loads the group, checks the actor may see its capital and
// folds its completed share purchases.
func (s *capitalService) authorizedShares(ctx context.Context, actor domain.Actor, groupID int64) (*domain.Group, []domain.MemberShares, error) {
	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, nil, passThrough(err, "failed to get group")
	}
	member, err := isMember(ctx, s.groupRepo, nil, groupID, actor.UserID)
	if err != nil {
		return nil, nil, err
	}
	if err := policy.Authorize(policy.GroupViewCapital, actor, policy.ForGroup(actor, group, member)); err != nil {
		return nil, nil, err
	}

	shares, err := memberShares(ctx, s.txnRepo, nil, group)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute group capital", slog.Int64("group_id", groupID))
		return nil, nil, err
	}
	return group, shares, nil
}

func (s *capitalService) GetGroupCapital(ctx context.Context, actor domain.Actor, groupID int64) (*domain.GroupCapital, error) {
	group, shares, err := s.authorizedShares(ctx, actor, groupID)
	if err != nil {
		return nil, err
	}
	return &domain.GroupCapital{
		GroupID:        group.GroupID,
		ShareValue:     group.ShareValue,
		TotalShares:    accounting.TotalShares(shares),
		TotalSavings:   group.TotalSavings,
		TotalLoans:     group.TotalLoans,
		SolidarityFund: group.SolidarityFund,
		Members:        shares,
	}, nil
}

// TotalShares is the sum over completed share purchases of amount / share value.
func (s *capitalService) TotalShares(ctx context.Context, actor domain.Actor, groupID int64) (decimal.Decimal, error) {
	_, shares, err := s.authorizedShares(ctx, actor, groupID)
	if err != nil {
		return decimal.Zero, err
	}
	return accounting.TotalShares(shares), nil
}

// MemberShares is TotalShares restricted to one member's purchases.
func (s *capitalService) MemberShares(ctx context.Context, actor domain.Actor, groupID, userID int64) (decimal.Decimal, error) {
	_, shares, err := s.authorizedShares(ctx, actor, groupID)
	if err != nil {
		return decimal.Zero, err
	}
	return accounting.SharesOf(shares, userID), nil
}
