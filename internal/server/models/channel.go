package models

import "time"

// Channel is a conversation unit, direct or group. RelayRoomID is set once
// at creation and never changes. IsEncrypted is always true under the
// current policy; the column exists so the policy can change per channel
// without a migration.
type Channel struct {
	ID          string
	Name        *string
	RelayRoomID string
	IsGroup     bool
	IsEncrypted bool
	IsLocked    bool
	CreatedAt   time.Time
	CreatedBy   string
}

// Membership grants a user access to a channel; admins may change membership
// and lock state.
type Membership struct {
	ChannelID string
	UserID    string
	IsAdmin   bool
}
