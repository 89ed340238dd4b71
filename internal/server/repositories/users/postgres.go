package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"boardchat/internal/apperr"
	"boardchat/internal/dbx"
	"boardchat/internal/server/models"
)

// PostgresRepository implements account storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, password_digest, external_id, avatar_url, is_anonymous, created_at, last_seen`

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_digest, external_id, avatar_url, is_anonymous, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordDigest,
		user.ExternalID, user.AvatarURL, user.IsAnonymous, user.CreatedAt)
	if err != nil {
		return apperr.Dependency("inserting user", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, apperr.Dependency("checking email", err)
	}
	return exists, nil
}

func (r *PostgresRepository) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users SET last_seen = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, at, id); err != nil {
		return apperr.Dependency("updating last seen", err)
	}
	return nil
}

func (r *PostgresRepository) UpdatePasswordDigest(ctx context.Context, id, digest string) error {
	query := `UPDATE users SET password_digest = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, digest, id); err != nil {
		return apperr.Dependency("updating password digest", err)
	}
	return nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordDigest,
		&user.ExternalID, &user.AvatarURL, &user.IsAnonymous, &user.CreatedAt, &user.LastSeen)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Dependency("selecting user", err)
	}
	return user, nil
}
