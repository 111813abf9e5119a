package domain

import "time"

// MeetingType classifies a group meeting.
type MeetingType string

const (
	MeetingRegular   MeetingType = "regular"
	MeetingEmergency MeetingType = "emergency"
	MeetingFormation MeetingType = "formation"
)

// Meeting records a group session and what was decided there.
type Meeting struct {
	MeetingID      int64       `json:"meetingID" db:"meeting_id"`
	GroupID        int64       `json:"groupID" db:"group_id"`
	MeetingDate    time.Time   `json:"meetingDate" db:"meeting_date"`
	MeetingType    MeetingType `json:"meetingType" db:"meeting_type"`
	AttendeesCount int         `json:"attendeesCount" db:"attendees_count"`
	Agenda         string      `json:"agenda" db:"agenda"`
	Decisions      string      `json:"decisions" db:"decisions"`
	AuditFields
}
