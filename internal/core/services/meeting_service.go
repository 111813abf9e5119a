package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/core/policy"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/utils/pagination"
)

type meetingService struct {
	BaseService
	meetingRepo portsrepo.MeetingRepositoryFacade
	groupRepo   portsrepo.GroupRepositoryWithTx
}

// NewMeetingService creates a new meeting service with the provided options
func NewMeetingService(meetingRepo portsrepo.MeetingRepositoryFacade, groupRepo portsrepo.GroupRepositoryWithTx, options ...BaseOption) portssvc.MeetingSvcFacade {
	return &meetingService{
		BaseService: newBaseService(options...),
		meetingRepo: meetingRepo,
		groupRepo:   groupRepo,
	}
}

var _ portssvc.MeetingSvcFacade = (*meetingService)(nil)

// groupSubject loads the group and the actor's relationship to it.
func groupSubject(ctx context.Context, repo portsrepo.GroupRepositoryWithTx, actor domain.Actor, groupID int64) (*domain.Group, policy.Subject, error) {
	group, err := repo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, nil, passThrough(err, "failed to get group")
	}
	member, err := isMember(ctx, repo, nil, groupID, actor.UserID)
	if err != nil {
		return nil, nil, err
	}
	return group, policy.ForGroup(actor, group, member), nil
}

func (s *meetingService) CreateMeeting(ctx context.Context, actor domain.Actor, groupID int64, req dto.CreateMeetingRequest) (*domain.Meeting, error) {
	_, subject, err := groupSubject(ctx, s.groupRepo, actor, groupID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.MeetingCreate, actor, subject); err != nil {
		return nil, err
	}

	meeting := domain.Meeting{
		GroupID:        groupID,
		MeetingDate:    req.MeetingDate,
		MeetingType:    domain.MeetingType(req.MeetingType),
		AttendeesCount: req.AttendeesCount,
		Agenda:         req.Agenda,
		Decisions:      req.Decisions,
		AuditFields:    domain.NewAuditFields(actor.UserID, s.Now()),
	}
	if meeting.MeetingType == "" {
		meeting.MeetingType = domain.MeetingRegular
	}

	created, err := s.meetingRepo.SaveMeeting(ctx, meeting)
	if err != nil {
		s.LogError(ctx, err, "Failed to save meeting", slog.Int64("group_id", groupID))
		return nil, passThrough(err, "failed to create meeting")
	}
	s.LogInfo(ctx, "Meeting recorded",
		slog.Int64("meeting_id", created.MeetingID),
		slog.Int64("group_id", groupID))
	return created, nil
}

func (s *meetingService) ListMeetings(ctx context.Context, actor domain.Actor, groupID int64, params dto.ListMeetingsParams) ([]domain.Meeting, error) {
	_, subject, err := groupSubject(ctx, s.groupRepo, actor, groupID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.MeetingView, actor, subject); err != nil {
		return nil, err
	}
	meetings, err := s.meetingRepo.ListMeetings(ctx, groupID, pagination.ClampLimit(params.Limit), max(params.Offset, 0))
	if err != nil {
		return nil, passThrough(err, "failed to list meetings")
	}
	return meetings, nil
}
