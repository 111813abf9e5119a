package dto

import (
	"time"

	"github.com/SscSPs/avec_backend/internal/core/domain"
)

// CreateMeetingRequest records a group meeting.
type CreateMeetingRequest struct {
	MeetingDate    time.Time `json:"meetingDate" binding:"required"`
	MeetingType    string    `json:"meetingType" binding:"omitempty,oneof=regular emergency formation"`
	AttendeesCount int       `json:"attendeesCount" binding:"gte=0"`
	Agenda         string    `json:"agenda"`
	Decisions      string    `json:"decisions"`
}

// ListMeetingsParams defines query parameters for listing meetings.
type ListMeetingsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListMeetingsResponse wraps a group's meetings.
type ListMeetingsResponse struct {
	Meetings []domain.Meeting `json:"meetings"`
}
