package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/avec_backend/internal/apperrors"
	"github.com/SscSPs/avec_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/avec_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, username, email, first_name, last_name, phone, village, role, status,
	password_hash, google_id, refresh_token_hash, refresh_token_expiry,
	created_at, created_by, last_updated_at, last_updated_by`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role, status string
	err := row.Scan(
		&u.UserID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.Village,
		&role,
		&status,
		&u.PasswordHash,
		&u.GoogleID,
		&u.RefreshTokenHash,
		&u.RefreshTokenExpiryTime,
		&u.CreatedAt,
		&u.CreatedBy,
		&u.LastUpdatedAt,
		&u.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	u.Status = domain.UserStatus(status)
	return &u, nil
}

func (r *PgxUserRepository) findOne(ctx context.Context, where string, arg any, notFound string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, mapPgError(err, notFound)
	}
	return u, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return r.findOne(ctx, "user_id = $1", userID, fmt.Sprintf("user %d not found", userID))
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = $1", username, "user not found")
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "LOWER(email) = LOWER($1) ORDER BY user_id LIMIT 1", email, "user not found")
}

func (r *PgxUserRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.findOne(ctx, "google_id = $1", googleID, "user not found")
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, user_id DESC LIMIT $1 OFFSET $2`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (username, email, first_name, last_name, phone, village, role, status,
			password_hash, google_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + userColumns
	saved, err := scanUser(r.Pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Village,
		string(user.Role),
		string(user.Status),
		user.PasswordHash,
		user.GoogleID,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	))
	if err != nil {
		return nil, mapPgError(err, "failed to save user")
	}
	return saved, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users SET
			email = $1, first_name = $2, last_name = $3, phone = $4, village = $5,
			role = $6, status = $7, google_id = $8, last_updated_at = $9, last_updated_by = $10
		WHERE user_id = $11`
	tag, err := r.Pool.Exec(ctx, query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Village,
		string(user.Role),
		string(user.Status),
		user.GoogleID,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
		user.UserID,
	)
	if err != nil {
		return mapPgError(err, "failed to update user")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user %d not found", user.UserID))
	}
	return nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID int64, tokenHash *string, expiry *time.Time) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE users SET refresh_token_hash = $1, refresh_token_expiry = $2 WHERE user_id = $3`,
		tokenHash, expiry, userID,
	)
	if err != nil {
		return mapPgError(err, "failed to update refresh token")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user %d not found", userID))
	}
	return nil
}

func (r *PgxUserRepository) UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE users SET
			password_hash = $1, refresh_token_hash = NULL, refresh_token_expiry = NULL,
			last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $3`,
		passwordHash, at, userID,
	)
	if err != nil {
		return mapPgError(err, "failed to update password")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user %d not found", userID))
	}
	return nil
}
