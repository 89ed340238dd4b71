package messages

import (
	"context"

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

func (r *PostgresRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (id, channel_id, sender_id, content, relay_ref, reply_to, is_encrypted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		message.ID, message.ChannelID, message.SenderID, message.Content,
		message.RelayRef, message.ReplyTo, message.IsEncrypted, message.CreatedAt)
	if err != nil {
		return apperr.Dependency("inserting message", err)
	}
	return nil
}

func (r *PostgresRepository) ListByChannel(ctx context.Context, channelID string, limit, offset int) ([]*models.Message, error) {
	query := `
		SELECT id, channel_id, sender_id, content, relay_ref, reply_to, is_encrypted, created_at
		FROM messages
		WHERE channel_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, channelID, limit, offset)
	if err != nil {
		return nil, apperr.Dependency("listing messages", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.SenderID, &m.Content,
			&m.RelayRef, &m.ReplyTo, &m.IsEncrypted, &m.CreatedAt); err != nil {
			return nil, apperr.Dependency("scanning message", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("listing messages", err)
	}
	return result, nil
}
