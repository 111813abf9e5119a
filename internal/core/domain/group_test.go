package domain_test

import (
	"testing"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup_AdmitMemberFillsGroup(t *testing.T) {
	group := domain.Group{MaxMembers: 2, Status: domain.GroupActive}

	require.NoError(t, group.AdmitMember())
	assert.Equal(t, domain.GroupActive, group.Status)
	require.NoError(t, group.AdmitMember())
	assert.Equal(t, domain.GroupFull, group.Status)
	assert.Equal(t, 2, group.CurrentMembers)

	err := group.AdmitMember()
	assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
	assert.Equal(t, 2, group.CurrentMembers)
}

func TestGroup_AdmitMemberRequiresActive(t *testing.T) {
	for _, status := range []domain.GroupStatus{domain.GroupInactive, domain.GroupCompleted, domain.GroupFull} {
		group := domain.Group{MaxMembers: 10, CurrentMembers: 1, Status: status}
		assert.ErrorIs(t, group.AdmitMember(), apperrors.ErrCapacityExceeded, string(status))
	}
}

func TestGroup_ReleaseMemberReopensFullGroup(t *testing.T) {
	group := domain.Group{MaxMembers: 3, CurrentMembers: 3, Status: domain.GroupFull}

	require.NoError(t, group.ReleaseMember())
	assert.Equal(t, domain.GroupActive, group.Status)
	assert.Equal(t, 2, group.CurrentMembers)

	inactive := domain.Group{MaxMembers: 3, CurrentMembers: 1, Status: domain.GroupInactive}
	require.NoError(t, inactive.ReleaseMember())
	assert.Equal(t, domain.GroupInactive, inactive.Status)

	assert.ErrorIs(t, inactive.ReleaseMember(), apperrors.ErrNotAMember)
}

func TestGroup_Resize(t *testing.T) {
	group := domain.Group{MaxMembers: 5, CurrentMembers: 4, Status: domain.GroupActive}

	assert.ErrorIs(t, group.Resize(3), apperrors.ErrValidation)
	require.NoError(t, group.Resize(4))
	assert.Equal(t, domain.GroupFull, group.Status)
	require.NoError(t, group.Resize(10))
	assert.Equal(t, domain.GroupActive, group.Status)
}

func TestGroup_ValidateShareAmount(t *testing.T) {
	group := domain.Group{ShareValue: decimal.NewFromInt(1000)}

	assert.NoError(t, group.ValidateShareAmount(decimal.NewFromInt(3000)))
	assert.ErrorIs(t, group.ValidateShareAmount(decimal.NewFromInt(1500)), apperrors.ErrValidation)
	assert.ErrorIs(t, group.ValidateShareAmount(decimal.Zero), apperrors.ErrValidation)

	noValue := domain.Group{}
	assert.ErrorIs(t, noValue.ValidateShareAmount(decimal.NewFromInt(1000)), apperrors.ErrValidation)
}

func TestGroup_Committee(t *testing.T) {
	alice, bob := int64(1), int64(2)
	group := domain.Group{}

	group.SetCommittee(domain.CommitteePresident, &alice)
	group.SetCommittee(domain.CommitteeTreasurer, &alice)
	group.SetCommittee(domain.CommitteeSecretary, &bob)

	assert.ElementsMatch(t, []domain.CommitteeRole{domain.CommitteePresident, domain.CommitteeTreasurer}, group.CommitteeRolesOf(alice))
	assert.Equal(t, []domain.CommitteeRole{domain.CommitteeSecretary}, group.CommitteeRolesOf(bob))

	group.SetCommittee(domain.CommitteePresident, nil)
	assert.Nil(t, group.CommitteeHolder(domain.CommitteePresident))
}

func TestGroup_ApplyCapital(t *testing.T) {
	group := domain.Group{TotalSavings: decimal.NewFromInt(100), TotalLoans: decimal.Zero, SolidarityFund: decimal.Zero}
	group.ApplyCapital(domain.Transaction{Type: domain.Loan, Amount: decimal.NewFromInt(40)}.CapitalEffect())
	group.ApplyCapital(domain.Transaction{Type: domain.SharesPurchase, Amount: decimal.NewFromInt(1000)}.CapitalEffect())

	assert.True(t, decimal.NewFromInt(1100).Equal(group.TotalSavings))
	assert.True(t, decimal.NewFromInt(40).Equal(group.TotalLoans))
	assert.True(t, decimal.NewFromInt(1140).Equal(group.TotalCapital()))
}
