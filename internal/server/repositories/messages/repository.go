// Package messages provides persistence for the durable channel transcript.
// Content arrives here already encrypted; this layer never sees plaintext.
package messages

import (
	"context"

	"boardchat/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, message *models.Message) error

	// ListByChannel returns a page ordered by descending creation time.
	// Ordering and pagination work on row metadata only, independent of
	// whether the stored envelopes can be decrypted.
	ListByChannel(ctx context.Context, channelID string, limit, offset int) ([]*models.Message, error)
}
