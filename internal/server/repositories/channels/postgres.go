package channels

import (
	"context"
	"database/sql"
	"errors"

	"boardchat/internal/apperr"
	"boardchat/internal/dbx"
	"boardchat/internal/server/models"
)

// PostgresRepository holds a *sql.DB rather than a DBTX because
// CreateWithCreator opens its own transaction.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const channelColumns = `id, name, relay_room_id, is_group, is_encrypted, is_locked, created_at, created_by`

func (r *PostgresRepository) CreateWithCreator(ctx context.Context, channel *models.Channel, creatorID string) error {
	err := dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		insertChannel := `
			INSERT INTO channels (id, name, relay_room_id, is_group, is_encrypted, is_locked, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.ExecContext(ctx, insertChannel,
			channel.ID, channel.Name, channel.RelayRoomID, channel.IsGroup,
			channel.IsEncrypted, channel.IsLocked, channel.CreatedAt, channel.CreatedBy)
		if err != nil {
			return err
		}

		insertMember := `
			INSERT INTO channel_members (channel_id, user_id, is_admin)
			VALUES ($1, $2, TRUE)
		`
		_, err = tx.ExecContext(ctx, insertMember, channel.ID, creatorID)
		return err
	})
	if err != nil {
		return apperr.Dependency("inserting channel", err)
	}
	return nil
}

func (r *PostgresRepository) FindDirectByMembers(ctx context.Context, userA, userB string) (*models.Channel, error) {
	// The membership set must equal exactly {userA, userB}: a direct channel
	// that has since gained a third member no longer matches the pair.
	query := `
		SELECT c.id, c.name, c.relay_room_id, c.is_group, c.is_encrypted, c.is_locked, c.created_at, c.created_by
		FROM channels c
		JOIN channel_members m1 ON c.id = m1.channel_id AND m1.user_id = $1
		JOIN channel_members m2 ON c.id = m2.channel_id AND m2.user_id = $2
		WHERE c.is_group = FALSE
		  AND (SELECT COUNT(*) FROM channel_members m WHERE m.channel_id = c.id) = 2
		LIMIT 1
	`
	return r.scanChannel(r.db.QueryRowContext(ctx, query, userA, userB))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE id = $1`
	return r.scanChannel(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Channel, error) {
	query := `
		SELECT c.id, c.name, c.relay_room_id, c.is_group, c.is_encrypted, c.is_locked, c.created_at, c.created_by
		FROM channels c
		JOIN channel_members m ON c.id = m.channel_id
		WHERE m.user_id = $1
		ORDER BY c.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperr.Dependency("listing channels", err)
	}
	defer rows.Close()

	var result []*models.Channel
	for rows.Next() {
		ch := &models.Channel{}
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.RelayRoomID, &ch.IsGroup,
			&ch.IsEncrypted, &ch.IsLocked, &ch.CreatedAt, &ch.CreatedBy); err != nil {
			return nil, apperr.Dependency("scanning channel", err)
		}
		result = append(result, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("listing channels", err)
	}
	return result, nil
}

func (r *PostgresRepository) SetLocked(ctx context.Context, id string, locked bool) error {
	query := `UPDATE channels SET is_locked = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, locked, id)
	if err != nil {
		return apperr.Dependency("updating channel lock", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Dependency("updating channel lock", err)
	}
	if n == 0 {
		return apperr.NotFound("channel")
	}
	return nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, m *models.Membership) error {
	query := `
		INSERT INTO channel_members (channel_id, user_id, is_admin)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, m.ChannelID, m.UserID, m.IsAdmin); err != nil {
		return apperr.Dependency("inserting membership", err)
	}
	return nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, channelID, userID string) (*models.Membership, error) {
	query := `
		SELECT channel_id, user_id, is_admin FROM channel_members
		WHERE channel_id = $1 AND user_id = $2
	`
	m := &models.Membership{}
	err := r.db.QueryRowContext(ctx, query, channelID, userID).
		Scan(&m.ChannelID, &m.UserID, &m.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("membership")
		}
		return nil, apperr.Dependency("selecting membership", err)
	}
	return m, nil
}

func (r *PostgresRepository) RemoveMember(ctx context.Context, channelID, userID string) error {
	query := `DELETE FROM channel_members WHERE channel_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, channelID, userID); err != nil {
		return apperr.Dependency("deleting membership", err)
	}
	return nil
}

func (r *PostgresRepository) scanChannel(row *sql.Row) (*models.Channel, error) {
	ch := &models.Channel{}
	err := row.Scan(&ch.ID, &ch.Name, &ch.RelayRoomID, &ch.IsGroup,
		&ch.IsEncrypted, &ch.IsLocked, &ch.CreatedAt, &ch.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("channel")
		}
		return nil, apperr.Dependency("selecting channel", err)
	}
	return ch, nil
}
