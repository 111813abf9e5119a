package services

import (
	"context"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/dto"
)

// GroupReaderSvc defines read operations for groups
type GroupReaderSvc interface {
	GetGroupByID(ctx context.Context, actor domain.Actor, groupID int64) (*domain.Group, error)
	ListGroups(ctx context.Context, actor domain.Actor, params dto.ListGroupsParams) ([]domain.Group, error)
}

// GroupWriterSvc defines write operations for groups
type GroupWriterSvc interface {
	CreateGroup(ctx context.Context, actor domain.Actor, req dto.CreateGroupRequest) (*domain.Group, error)
	UpdateGroup(ctx context.Context, actor domain.Actor, groupID int64, req dto.UpdateGroupRequest) (*domain.Group, error)

	// DeleteGroup fails with a conflict while the group has members.
	DeleteGroup(ctx context.Context, actor domain.Actor, groupID int64) error
}

// GroupSvcFacade combines all group-related service interfaces
type GroupSvcFacade interface {
	GroupReaderSvc
	GroupWriterSvc
}

// MembershipSvcFacade manages capacity-bounded membership and committee seats
type MembershipSvcFacade interface {
	AddMember(ctx context.Context, actor domain.Actor, groupID, userID int64) (*domain.Membership, error)
	RemoveMember(ctx context.Context, actor domain.Actor, groupID, userID int64) error
	AssignCommitteeRole(ctx context.Context, actor domain.Actor, groupID int64, role domain.CommitteeRole, userID int64) (*domain.Group, error)
	ListMembers(ctx context.Context, actor domain.Actor, groupID int64) ([]domain.Membership, error)
}
