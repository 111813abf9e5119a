package repositories

import (
	"context"

	"github.com/SscSPs/avec_backend/internal/core/domain"
)

// MeetingRepositoryFacade defines persistence for group meetings
type MeetingRepositoryFacade interface {
	SaveMeeting(ctx context.Context, meeting domain.Meeting) (*domain.Meeting, error)
	ListMeetings(ctx context.Context, groupID int64, limit, offset int) ([]domain.Meeting, error)
}
