// Package sessions provides persistence for login sessions, indexed by the
// token digest. Plaintext tokens never reach this layer.
package sessions

import (
	"context"
	"time"

	"boardchat/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, session *models.Session) error

	// GetByDigest resolves a session row by token digest regardless of
	// expiry; deciding whether it is still live is the service's job.
	GetByDigest(ctx context.Context, digest string) (*models.Session, error)

	// DeleteByDigest is idempotent: deleting an absent row is not an error.
	DeleteByDigest(ctx context.Context, digest string) error

	// DeleteByUser revokes every session a user holds (password change).
	DeleteByUser(ctx context.Context, userID string) error

	// DeleteExpired removes every row with expires_at before now and
	// reports how many went away.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
