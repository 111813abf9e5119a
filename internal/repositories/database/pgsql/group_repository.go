package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxGroupRepository struct {
	BaseRepository
}

func newPgxGroupRepository(db *pgxpool.Pool) portsrepo.GroupRepositoryWithTx {
	return &PgxGroupRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.GroupRepositoryWithTx = (*PgxGroupRepository)(nil)

const groupColumns = `group_id, cycle_id, name, description, village, max_members, current_members, status,
	meeting_location, meeting_time, share_value, contribution_amount, total_savings, total_loans,
	solidarity_fund, loan_interest_rate, max_loan_amount, loan_duration_months, solidarity_contribution_rate,
	president_id, secretary_id, treasurer_id, shared_at, version,
	created_at, created_by, last_updated_at, last_updated_by`

func scanGroup(row pgx.Row) (*domain.Group, error) {
	var g domain.Group
	var status string
	err := row.Scan(
		&g.GroupID,
		&g.CycleID,
		&g.Name,
		&g.Description,
		&g.Village,
		&g.MaxMembers,
		&g.CurrentMembers,
		&status,
		&g.MeetingLocation,
		&g.MeetingTime,
		&g.ShareValue,
		&g.ContributionAmount,
		&g.TotalSavings,
		&g.TotalLoans,
		&g.SolidarityFund,
		&g.LoanInterestRate,
		&g.MaxLoanAmount,
		&g.LoanDurationMonths,
		&g.SolidarityContributionRate,
		&g.PresidentID,
		&g.SecretaryID,
		&g.TreasurerID,
		&g.SharedAt,
		&g.Version,
		&g.CreatedAt,
		&g.CreatedBy,
		&g.LastUpdatedAt,
		&g.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	g.Status = domain.GroupStatus(status)
	return &g, nil
}

func (r *PgxGroupRepository) FindGroupByID(ctx context.Context, groupID int64) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM savings_groups WHERE group_id = $1`
	g, err := scanGroup(r.Pool.QueryRow(ctx, query, groupID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("group %d not found", groupID))
	}
	return g, nil
}

func (r *PgxGroupRepository) FindGroupByIDForUpdate(ctx context.Context, tx pgx.Tx, groupID int64) (*domain.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM savings_groups WHERE group_id = $1 FOR UPDATE`
	g, err := scanGroup(r.db(tx).QueryRow(ctx, query, groupID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("group %d not found", groupID))
	}
	return g, nil
}

func (r *PgxGroupRepository) ListGroups(ctx context.Context, filter domain.GroupFilter) ([]domain.Group, error) {
	var (
		conds []string
		args  []any
	)
	if filter.CycleID != nil {
		args = append(args, *filter.CycleID)
		conds = append(conds, fmt.Sprintf("cycle_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Village != "" {
		args = append(args, filter.Village)
		conds = append(conds, fmt.Sprintf("village ILIKE $%d", len(args)))
	}

	query := `SELECT ` + groupColumns + ` FROM savings_groups`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY name ASC, group_id ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	groups := []domain.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}
	return groups, nil
}

func (r *PgxGroupRepository) SaveGroup(ctx context.Context, tx pgx.Tx, group domain.Group) (*domain.Group, error) {
	query := `
		INSERT INTO savings_groups (cycle_id, name, description, village, max_members, current_members, status,
			meeting_location, meeting_time, share_value, contribution_amount, total_savings, total_loans,
			solidarity_fund, loan_interest_rate, max_loan_amount, loan_duration_months, solidarity_contribution_rate,
			version, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, 0, $19, $20, $21, $22)
		RETURNING ` + groupColumns
	saved, err := scanGroup(r.db(tx).QueryRow(ctx, query,
		group.CycleID,
		group.Name,
		group.Description,
		group.Village,
		group.MaxMembers,
		group.CurrentMembers,
		string(group.Status),
		group.MeetingLocation,
		group.MeetingTime,
		group.ShareValue,
		group.ContributionAmount,
		group.TotalSavings,
		group.TotalLoans,
		group.SolidarityFund,
		group.LoanInterestRate,
		group.MaxLoanAmount,
		group.LoanDurationMonths,
		group.SolidarityContributionRate,
		group.CreatedAt,
		group.CreatedBy,
		group.LastUpdatedAt,
		group.LastUpdatedBy,
	))
	if err != nil {
		return nil, mapPgError(err, "failed to save group")
	}
	return saved, nil
}

func (r *PgxGroupRepository) UpdateGroup(ctx context.Context, tx pgx.Tx, group domain.Group) error {
	query := `
		UPDATE savings_groups SET
			name = $1, description = $2, village = $3, max_members = $4, current_members = $5, status = $6,
			meeting_location = $7, meeting_time = $8, share_value = $9, contribution_amount = $10,
			total_savings = $11, total_loans = $12, solidarity_fund = $13, loan_interest_rate = $14,
			max_loan_amount = $15, loan_duration_months = $16, solidarity_contribution_rate = $17,
			president_id = $18, secretary_id = $19, treasurer_id = $20, shared_at = $21,
			last_updated_at = $22, last_updated_by = $23, version = version + 1
		WHERE group_id = $24 AND version = $25`
	tag, err := r.db(tx).Exec(ctx, query,
		group.Name,
		group.Description,
		group.Village,
		group.MaxMembers,
		group.CurrentMembers,
		string(group.Status),
		group.MeetingLocation,
		group.MeetingTime,
		group.ShareValue,
		group.ContributionAmount,
		group.TotalSavings,
		group.TotalLoans,
		group.SolidarityFund,
		group.LoanInterestRate,
		group.MaxLoanAmount,
		group.LoanDurationMonths,
		group.SolidarityContributionRate,
		group.PresidentID,
		group.SecretaryID,
		group.TreasurerID,
		group.SharedAt,
		group.LastUpdatedAt,
		group.LastUpdatedBy,
		group.GroupID,
		group.Version,
	)
	if err != nil {
		return mapPgError(err, "failed to update group")
	}
	if tag.RowsAffected() == 0 {
		return staleWrite("group", group.GroupID)
	}
	return nil
}

func (r *PgxGroupRepository) DeleteGroup(ctx context.Context, tx pgx.Tx, groupID int64) error {
	tag, err := r.db(tx).Exec(ctx, `DELETE FROM savings_groups WHERE group_id = $1`, groupID)
	if err != nil {
		return mapPgError(err, "failed to delete group")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("group %d not found", groupID))
	}
	return nil
}

const membershipColumns = `m.membership_id, m.group_id, m.user_id,
	COALESCE(NULLIF(TRIM(u.first_name || ' ' || u.last_name), ''), u.username),
	m.committee_role, m.joined_at`

func scanMembership(row pgx.Row) (*domain.Membership, error) {
	var m domain.Membership
	var role string
	if err := row.Scan(&m.MembershipID, &m.GroupID, &m.UserID, &m.UserName, &role, &m.JoinedAt); err != nil {
		return nil, err
	}
	m.CommitteeRole = domain.CommitteeRole(role)
	return &m, nil
}

func (r *PgxGroupRepository) FindMembership(ctx context.Context, tx pgx.Tx, groupID, userID int64) (*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + `
		FROM memberships m JOIN users u ON u.user_id = m.user_id
		WHERE m.group_id = $1 AND m.user_id = $2`
	m, err := scanMembership(r.db(tx).QueryRow(ctx, query, groupID, userID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("user %d is not a member of group %d", userID, groupID))
	}
	return m, nil
}

func (r *PgxGroupRepository) ListMembers(ctx context.Context, groupID int64) ([]domain.Membership, error) {
	query := `SELECT ` + membershipColumns + `
		FROM memberships m JOIN users u ON u.user_id = m.user_id
		WHERE m.group_id = $1
		ORDER BY m.joined_at ASC, m.membership_id ASC`
	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []domain.Membership{}
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership row: %w", err)
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", err)
	}
	return members, nil
}

func (r *PgxGroupRepository) SaveMembership(ctx context.Context, tx pgx.Tx, membership domain.Membership) (*domain.Membership, error) {
	query := `
		INSERT INTO memberships (group_id, user_id, committee_role, joined_at)
		VALUES ($1, $2, $3, $4)
		RETURNING membership_id`
	err := r.db(tx).QueryRow(ctx, query,
		membership.GroupID,
		membership.UserID,
		string(membership.CommitteeRole),
		membership.JoinedAt,
	).Scan(&membership.MembershipID)
	if err != nil {
		mapped := mapPgError(err, "failed to save membership")
		if errors.Is(mapped, apperrors.ErrDuplicate) {
			return nil, &apperrors.AppError{
				Code:    http.StatusConflict,
				Message: fmt.Sprintf("user %d is already a member of group %d", membership.UserID, membership.GroupID),
				Kind:    apperrors.ErrAlreadyMember,
				Err:     err,
			}
		}
		return nil, mapped
	}
	return &membership, nil
}

func (r *PgxGroupRepository) DeleteMembership(ctx context.Context, tx pgx.Tx, groupID, userID int64) error {
	tag, err := r.db(tx).Exec(ctx, `DELETE FROM memberships WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return mapPgError(err, "failed to delete membership")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Wrap(apperrors.ErrNotAMember, fmt.Sprintf("user %d is not a member of group %d", userID, groupID))
	}
	return nil
}

func (r *PgxGroupRepository) SetCommitteeRole(ctx context.Context, tx pgx.Tx, groupID int64, role domain.CommitteeRole, userID int64) error {
	q := r.db(tx)
	if _, err := q.Exec(ctx,
		`UPDATE memberships SET committee_role = '' WHERE group_id = $1 AND committee_role = $2`,
		groupID, string(role),
	); err != nil {
		return mapPgError(err, "failed to clear committee role")
	}
	if userID == 0 {
		return nil
	}
	tag, err := q.Exec(ctx,
		`UPDATE memberships SET committee_role = $1 WHERE group_id = $2 AND user_id = $3`,
		string(role), groupID, userID,
	)
	if err != nil {
		return mapPgError(err, "failed to set committee role")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Wrap(apperrors.ErrNotAMember, fmt.Sprintf("user %d is not a member of group %d", userID, groupID))
	}
	return nil
}
