package sessions

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"boardchat/internal/apperr"
	"boardchat/internal/dbx"
	"boardchat/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, token_digest, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.TokenDigest, session.IssuedAt, session.ExpiresAt)
	if err != nil {
		return apperr.Dependency("inserting session", err)
	}
	return nil
}

func (r *PostgresRepository) GetByDigest(ctx context.Context, digest string) (*models.Session, error) {
	query := `
		SELECT id, user_id, token_digest, issued_at, expires_at FROM sessions
		WHERE token_digest = $1
	`
	s := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, digest).
		Scan(&s.ID, &s.UserID, &s.TokenDigest, &s.IssuedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("session")
		}
		return nil, apperr.Dependency("selecting session", err)
	}
	return s, nil
}

func (r *PostgresRepository) DeleteByDigest(ctx context.Context, digest string) error {
	query := `DELETE FROM sessions WHERE token_digest = $1`
	if _, err := r.db.ExecContext(ctx, query, digest); err != nil {
		return apperr.Dependency("deleting session", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	query := `DELETE FROM sessions WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return apperr.Dependency("deleting user sessions", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at < $1`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperr.Dependency("sweeping sessions", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.Dependency("sweeping sessions", err)
	}
	return n, nil
}
