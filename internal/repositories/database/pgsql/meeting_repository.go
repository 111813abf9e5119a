package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxMeetingRepository struct {
	BaseRepository
}

func newPgxMeetingRepository(db *pgxpool.Pool) portsrepo.MeetingRepositoryFacade {
	return &PgxMeetingRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.MeetingRepositoryFacade = (*PgxMeetingRepository)(nil)

func (r *PgxMeetingRepository) SaveMeeting(ctx context.Context, meeting domain.Meeting) (*domain.Meeting, error) {
	query := `
		INSERT INTO meetings (group_id, meeting_date, meeting_type, attendees_count, agenda, decisions,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING meeting_id`
	err := r.Pool.QueryRow(ctx, query,
		meeting.GroupID,
		meeting.MeetingDate,
		string(meeting.MeetingType),
		meeting.AttendeesCount,
		meeting.Agenda,
		meeting.Decisions,
		meeting.CreatedAt,
		meeting.CreatedBy,
		meeting.LastUpdatedAt,
		meeting.LastUpdatedBy,
	).Scan(&meeting.MeetingID)
	if err != nil {
		return nil, mapPgError(err, "failed to save meeting")
	}
	return &meeting, nil
}

func (r *PgxMeetingRepository) ListMeetings(ctx context.Context, groupID int64, limit, offset int) ([]domain.Meeting, error) {
	query := `
		SELECT meeting_id, group_id, meeting_date, meeting_type, attendees_count, agenda, decisions,
			created_at, created_by, last_updated_at, last_updated_by
		FROM meetings
		WHERE group_id = $1
		ORDER BY meeting_date DESC, meeting_id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.Pool.Query(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query meetings: %w", err)
	}
	defer rows.Close()

	meetings := []domain.Meeting{}
	for rows.Next() {
		var m domain.Meeting
		var meetingType string
		if err := rows.Scan(
			&m.MeetingID,
			&m.GroupID,
			&m.MeetingDate,
			&meetingType,
			&m.AttendeesCount,
			&m.Agenda,
			&m.Decisions,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan meeting row: %w", err)
		}
		m.MeetingType = domain.MeetingType(meetingType)
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating meeting rows: %w", err)
	}
	return meetings, nil
}
