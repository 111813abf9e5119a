package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/core/policy"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
)

const aggregateGroup = "group"

// membershipService keeps current_members and the full/active status in step
// with membership rows, under the group row lock.
type membershipService struct {
	BaseService
	groupRepo portsrepo.GroupRepositoryWithTx
	userRepo  portsrepo.UserReader
}

// NewMembershipService creates a new membership service with the provided options
func NewMembershipService(groupRepo portsrepo.GroupRepositoryWithTx, userRepo portsrepo.UserReader, options ...BaseOption) portssvc.MembershipSvcFacade {
	return &membershipService{
		BaseService: newBaseService(options...),
		groupRepo:   groupRepo,
		userRepo:    userRepo,
	}
}

var _ portssvc.MembershipSvcFacade = (*membershipService)(nil)

// isMember looks up a membership. A nil tx reads from the pool.
func isMember(ctx context.Context, repo portsrepo.MembershipRepository, tx pgx.Tx, groupID, userID int64) (bool, error) {
	_, err := repo.FindMembership(ctx, tx, groupID, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrNotAMember) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check membership: %w", err)
}

func (s *membershipService) AddMember(ctx context.Context, actor domain.Actor, groupID, userID int64) (*domain.Membership, error) {
	tx, err := s.groupRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.groupRepo.Rollback(ctx, tx)

	group, err := s.groupRepo.FindGroupByIDForUpdate(ctx, tx, groupID)
	if err != nil {
		return nil, passThrough(err, "failed to load group")
	}
	if err := policy.Authorize(policy.GroupAddMember, actor, policy.ForGroup(actor, group, false)); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, passThrough(err, "failed to load user")
	}
	if !user.IsActive() {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("user %d is inactive", userID))
	}

	member, err := isMember(ctx, s.groupRepo, tx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, apperrors.Wrap(apperrors.ErrAlreadyMember, fmt.Sprintf("user %d already belongs to group %d", userID, groupID))
	}
	if err := group.AdmitMember(); err != nil {
		return nil, err
	}

	now := s.Now()
	membership, err := s.groupRepo.SaveMembership(ctx, tx, domain.Membership{
		GroupID:  groupID,
		UserID:   userID,
		UserName: user.FullName(),
		JoinedAt: now,
	})
	if err != nil {
		return nil, passThrough(err, "failed to save membership")
	}

	group.Touch(actor.UserID, now)
	if err := s.groupRepo.UpdateGroup(ctx, tx, *group); err != nil {
		return nil, passThrough(err, "failed to update member count")
	}
	payload := map[string]any{"groupID": groupID, "userID": userID, "currentMembers": group.CurrentMembers, "status": group.Status}
	if err := s.RecordEvent(ctx, tx, aggregateGroup, groupID, domain.EventMembershipAdded, payload); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit membership: %w", err)
	}

	s.LogInfo(ctx, "Member added to group",
		slog.Int64("group_id", groupID),
		slog.Int64("user_id", userID),
		slog.Int("current_members", group.CurrentMembers))
	return membership, nil
}

func (s *membershipService) RemoveMember(ctx context.Context, actor domain.Actor, groupID, userID int64) error {
	tx, err := s.groupRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.groupRepo.Rollback(ctx, tx)

	group, err := s.groupRepo.FindGroupByIDForUpdate(ctx, tx, groupID)
	if err != nil {
		return passThrough(err, "failed to load group")
	}
	if err := policy.Authorize(policy.GroupRemoveMember, actor, policy.ForGroup(actor, group, false)); err != nil {
		return err
	}

	if err := s.groupRepo.DeleteMembership(ctx, tx, groupID, userID); err != nil {
		return passThrough(err, "failed to delete membership")
	}
	if err := group.ReleaseMember(); err != nil {
		return err
	}
	for _, role := range group.CommitteeRolesOf(userID) {
		group.SetCommittee(role, nil)
	}

	group.Touch(actor.UserID, s.Now())
	if err := s.groupRepo.UpdateGroup(ctx, tx, *group); err != nil {
		return passThrough(err, "failed to update member count")
	}
	payload := map[string]any{"groupID": groupID, "userID": userID, "currentMembers": group.CurrentMembers, "status": group.Status}
	if err := s.RecordEvent(ctx, tx, aggregateGroup, groupID, domain.EventMembershipRemoved, payload); err != nil {
		return err
	}
	if err := s.groupRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit membership removal: %w", err)
	}

	s.LogInfo(ctx, "Member removed from group",
		slog.Int64("group_id", groupID),
		slog.Int64("user_id", userID),
		slog.Int("current_members", group.CurrentMembers))
	return nil
}

// AssignCommitteeRole seats userID in role. A zero userID clears the seat.
// Only members of the group can hold a seat.
func (s *membershipService) AssignCommitteeRole(ctx context.Context, actor domain.Actor, groupID int64, role domain.CommitteeRole, userID int64) (*domain.Group, error) {
	if _, ok := domain.ParseCommitteeRole(string(role)); !ok {
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown committee role %q", role))
	}

	tx, err := s.groupRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.groupRepo.Rollback(ctx, tx)

	group, err := s.groupRepo.FindGroupByIDForUpdate(ctx, tx, groupID)
	if err != nil {
		return nil, passThrough(err, "failed to load group")
	}
	if err := policy.Authorize(policy.GroupAssignCommittee, actor, policy.ForGroup(actor, group, false)); err != nil {
		return nil, err
	}

	if userID == 0 {
		group.SetCommittee(role, nil)
	} else {
		member, err := isMember(ctx, s.groupRepo, tx, groupID, userID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, apperrors.Wrap(apperrors.ErrNotAMember, fmt.Sprintf("user %d does not belong to group %d", userID, groupID))
		}
		group.SetCommittee(role, &userID)
	}

	if err := s.groupRepo.SetCommitteeRole(ctx, tx, groupID, role, userID); err != nil {
		return nil, passThrough(err, "failed to record committee role")
	}
	group.Touch(actor.UserID, s.Now())
	if err := s.groupRepo.UpdateGroup(ctx, tx, *group); err != nil {
		return nil, passThrough(err, "failed to update committee")
	}
	if err := s.groupRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit committee change: %w", err)
	}
	group.Version++

	s.LogInfo(ctx, "Committee role assigned",
		slog.Int64("group_id", groupID),
		slog.String("role", string(role)),
		slog.Int64("user_id", userID))
	return group, nil
}

func (s *membershipService) ListMembers(ctx context.Context, actor domain.Actor, groupID int64) ([]domain.Membership, error) {
	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, passThrough(err, "failed to get group")
	}
	// Rosters are visible to every signed-in role.
	if err := policy.Authorize(policy.GroupViewMembers, actor, policy.ForGroup(actor, group, false)); err != nil {
		return nil, err
	}
	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list members", slog.Int64("group_id", groupID))
		return nil, passThrough(err, "failed to list members")
	}
	return members, nil
}
