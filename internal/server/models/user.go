// Package models holds the row-level types shared by repositories and
// services.
package models

import "time"

// User is an account. PasswordDigest is the self-describing argon2id digest;
// it is nil for anonymous accounts and is never exposed outside the identity
// service. ExternalID is the user's identity on the relay.
type User struct {
	ID             string
	Username       string
	Email          *string
	PasswordDigest *string
	ExternalID     string
	AvatarURL      *string
	IsAnonymous    bool
	CreatedAt      time.Time
	LastSeen       *time.Time
}
