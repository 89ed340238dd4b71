// Package users provides persistence for accounts.
package users

import (
	"context"
	"time"

	"boardchat/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
	UpdatePasswordDigest(ctx context.Context, id, digest string) error
}
