package repositories

import (
	"context"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// GroupReader defines read operations for groups
type GroupReader interface {
	FindGroupByID(ctx context.Context, groupID int64) (*domain.Group, error)
	ListGroups(ctx context.Context, filter domain.GroupFilter) ([]domain.Group, error)
}

// GroupWriter defines write operations for groups. All run inside the caller's transaction.
type GroupWriter interface {
	// SaveGroup inserts a group and returns it with its generated ID.
	SaveGroup(ctx context.Context, tx pgx.Tx, group domain.Group) (*domain.Group, error)

	// FindGroupByIDForUpdate reads and row-locks a group. Every change to
	// member counts or capital totals goes through this lock.
	FindGroupByIDForUpdate(ctx context.Context, tx pgx.Tx, groupID int64) (*domain.Group, error)

	// UpdateGroup writes the group if its version still matches, bumping the version.
	UpdateGroup(ctx context.Context, tx pgx.Tx, group domain.Group) error

	DeleteGroup(ctx context.Context, tx pgx.Tx, groupID int64) error
}

// MembershipRepository defines operations on the group/user join.
// A nil tx runs the read against the pool.
type MembershipRepository interface {
	FindMembership(ctx context.Context, tx pgx.Tx, groupID, userID int64) (*domain.Membership, error)
	ListMembers(ctx context.Context, groupID int64) ([]domain.Membership, error)

	// SaveMembership inserts the membership. A duplicate yields apperrors.ErrAlreadyMember.
	SaveMembership(ctx context.Context, tx pgx.Tx, membership domain.Membership) (*domain.Membership, error)

	// DeleteMembership removes the membership. A missing row yields apperrors.ErrNotAMember.
	DeleteMembership(ctx context.Context, tx pgx.Tx, groupID, userID int64) error

	// SetCommitteeRole mirrors a committee seat on the membership row, clearing
	// the role from whoever held it before. userID 0 only clears.
	SetCommitteeRole(ctx context.Context, tx pgx.Tx, groupID int64, role domain.CommitteeRole, userID int64) error
}

// GroupRepositoryWithTx combines group and membership operations with transaction management
type GroupRepositoryWithTx interface {
	TransactionManager
	GroupReader
	GroupWriter
	MembershipRepository
}
