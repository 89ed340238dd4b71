// Package channels provides persistence for channels and their memberships.
package channels

import (
	"context"

	"boardchat/internal/server/models"
)

type Repository interface {
	// CreateWithCreator inserts the channel and its creator's admin
	// membership in one transaction, so a channel row can never exist
	// without at least one admin.
	CreateWithCreator(ctx context.Context, channel *models.Channel, creatorID string) error

	// FindDirectByMembers locates an existing non-group channel whose
	// membership set is exactly the two users, in either order. Not-found
	// is a typed error, not nil.
	FindDirectByMembers(ctx context.Context, userA, userB string) (*models.Channel, error)

	GetByID(ctx context.Context, id string) (*models.Channel, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Channel, error)
	SetLocked(ctx context.Context, id string, locked bool) error

	AddMember(ctx context.Context, m *models.Membership) error
	GetMember(ctx context.Context, channelID, userID string) (*models.Membership, error)
	RemoveMember(ctx context.Context, channelID, userID string) error
}
