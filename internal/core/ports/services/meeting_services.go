package services

import (
	"context"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	"github.com/SscSPs/avec_backend/internal/dto"
)

// MeetingSvcFacade records and lists group meetings
type MeetingSvcFacade interface {
	CreateMeeting(ctx context.Context, actor domain.Actor, groupID int64, req dto.CreateMeetingRequest) (*domain.Meeting, error)
	ListMeetings(ctx context.Context, actor domain.Actor, groupID int64, params dto.ListMeetingsParams) ([]domain.Meeting, error)
}
