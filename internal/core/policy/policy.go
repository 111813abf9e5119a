// Package policy holds the single authorization table of the application.
// Every core operation calls Authorize once, at its entry point, with the
// explicit actor and the actor's relationship to the target entity.
package policy

import (
	"fmt"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
)

// Action names a guarded operation.
type Action string

const (
	CycleCreate       Action = "cycle:create"
	CycleEdit         Action = "cycle:edit"
	CycleDelete       Action = "cycle:delete"
	CycleAdvancePhase Action = "cycle:advance_phase"

	GroupCreate          Action = "group:create"
	GroupEdit            Action = "group:edit"
	GroupDelete          Action = "group:delete"
	GroupAddMember       Action = "group:add_member"
	GroupRemoveMember    Action = "group:remove_member"
	GroupAssignCommittee Action = "group:assign_committee"
	GroupViewCapital     Action = "group:view_capital"
	GroupViewMembers     Action = "group:view_members"

	TransactionCreate   Action = "transaction:create"
	TransactionApprove  Action = "transaction:approve"
	TransactionReject   Action = "transaction:reject"
	TransactionComplete Action = "transaction:complete"
	TransactionView     Action = "transaction:view"

	SharingPreview Action = "sharing:preview"
	SharingExecute Action = "sharing:execute"

	MeetingCreate Action = "meeting:create"
	MeetingView   Action = "meeting:view"

	FormationCreate   Action = "formation:create"
	FormationView     Action = "formation:view"
	FormationComplete Action = "formation:complete"

	EvaluationCreate Action = "evaluation:create"
	EvaluationView   Action = "evaluation:view"

	ReportSupervision Action = "report:supervision"
	ReportAccountBook Action = "report:account_book"

	UserManage Action = "user:manage"
)

// Relation is a fact about how the actor relates to the entity being acted on.
type Relation string

const (
	RelCreator    Relation = "creator"
	RelMember     Relation = "member"
	RelSelf       Relation = "self"
	RelPresident  Relation = "president"
	RelSecretary  Relation = "secretary"
	RelTreasurer  Relation = "treasurer"
	RelSelfMember Relation = "self_member" // member of the group acting on their own record
)

// Subject carries the relationships that hold between the actor and the target.
type Subject map[Relation]bool

type rule struct {
	roles     []domain.UserRole
	relations []Relation
}

var (
	staff    = []domain.UserRole{domain.RoleAdmin, domain.RoleSupervisor, domain.RoleFacilitator}
	admin    = []domain.UserRole{domain.RoleAdmin}
	adminFac = []domain.UserRole{domain.RoleAdmin, domain.RoleFacilitator}
	adminSup = []domain.UserRole{domain.RoleAdmin, domain.RoleSupervisor}
	anyone   = []domain.UserRole{domain.RoleAdmin, domain.RoleSupervisor, domain.RoleFacilitator, domain.RoleMember}
)

var table = map[Action]rule{
	CycleCreate:       {roles: staff},
	CycleEdit:         {roles: adminSup, relations: []Relation{RelCreator}},
	CycleDelete:       {roles: adminSup, relations: []Relation{RelCreator}},
	CycleAdvancePhase: {roles: staff, relations: []Relation{RelCreator}},

	GroupCreate:          {roles: adminFac},
	GroupEdit:            {roles: adminFac, relations: []Relation{RelCreator}},
	GroupDelete:          {roles: admin},
	GroupAddMember:       {roles: staff, relations: []Relation{RelCreator}},
	GroupRemoveMember:    {roles: staff, relations: []Relation{RelCreator}},
	GroupAssignCommittee: {roles: adminFac},
	GroupViewCapital:     {roles: staff, relations: []Relation{RelCreator, RelMember}},
	GroupViewMembers:     {roles: anyone},

	TransactionCreate:   {roles: staff, relations: []Relation{RelSelfMember}},
	TransactionApprove:  {roles: staff, relations: []Relation{RelCreator}},
	TransactionReject:   {roles: staff, relations: []Relation{RelCreator}},
	TransactionComplete: {roles: staff, relations: []Relation{RelCreator}},
	TransactionView:     {roles: staff, relations: []Relation{RelCreator, RelMember}},

	SharingPreview: {roles: adminFac, relations: []Relation{RelPresident, RelTreasurer}},
	SharingExecute: {roles: adminFac, relations: []Relation{RelPresident, RelTreasurer}},

	MeetingCreate: {roles: adminFac, relations: []Relation{RelPresident, RelSecretary}},
	MeetingView:   {roles: staff, relations: []Relation{RelCreator, RelMember}},

	FormationCreate:   {roles: adminFac, relations: []Relation{RelCreator}},
	FormationView:     {roles: staff, relations: []Relation{RelCreator, RelMember}},
	FormationComplete: {roles: adminFac, relations: []Relation{RelCreator, RelMember}},

	EvaluationCreate: {roles: adminFac},
	EvaluationView:   {roles: adminFac},

	ReportSupervision: {roles: staff},
	ReportAccountBook: {roles: staff, relations: []Relation{RelSelfMember, RelCreator}},

	UserManage: {roles: admin},
}

// Allows reports whether the table grants action to actor given subject.
// Unknown actions are denied.
func Allows(action Action, actor domain.Actor, subject Subject) bool {
	r, ok := table[action]
	if !ok {
		return false
	}
	if actor.Is(r.roles...) {
		return true
	}
	for _, rel := range r.relations {
		if subject[rel] {
			return true
		}
	}
	return false
}

// Authorize returns a permission-denied error when the table does not grant action.
func Authorize(action Action, actor domain.Actor, subject Subject) error {
	if Allows(action, actor, subject) {
		return nil
	}
	return apperrors.NewPermissionDeniedError(fmt.Sprintf("user %d (%s) may not %s", actor.UserID, actor.Role, action))
}

// ForCycle builds the subject for an actor acting on a cycle.
func ForCycle(actor domain.Actor, cycle *domain.Cycle) Subject {
	s := Subject{}
	if cycle != nil && cycle.CreatedBy == actor.UserID {
		s[RelCreator] = true
	}
	return s
}

// ForGroup builds the subject for an actor acting on a group. isMember tells
// whether the actor holds a membership in it.
func ForGroup(actor domain.Actor, group *domain.Group, isMember bool) Subject {
	s := Subject{}
	if group == nil {
		return s
	}
	if group.CreatedBy == actor.UserID {
		s[RelCreator] = true
	}
	if isMember {
		s[RelMember] = true
	}
	for _, role := range group.CommitteeRolesOf(actor.UserID) {
		switch role {
		case domain.CommitteePresident:
			s[RelPresident] = true
		case domain.CommitteeSecretary:
			s[RelSecretary] = true
		case domain.CommitteeTreasurer:
			s[RelTreasurer] = true
		}
	}
	return s
}

// WithSelf marks the subject as targeting the actor's own record when targetUserID matches.
// A group member acting on their own record also gets RelSelfMember.
func (s Subject) WithSelf(actor domain.Actor, targetUserID int64) Subject {
	if actor.UserID == targetUserID {
		s[RelSelf] = true
		if s[RelMember] {
			s[RelSelfMember] = true
		}
	}
	return s
}
