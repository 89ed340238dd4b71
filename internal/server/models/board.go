package models

import "time"

// Board is a public forum section backed by its own relay room. Forum
// content is public by nature and is not encrypted at rest.
type Board struct {
	ID          string
	Name        string
	Title       string
	Description *string
	RelayRoomID string
	IsNSFW      bool
	IsPrivate   bool
	CreatedAt   time.Time
	CreatedBy   string
}

// Thread is a top-level forum posting on a board.
type Thread struct {
	ID          string
	BoardID     string
	Title       *string
	Content     string
	ImageURL    *string
	RelayRef    string
	IsPinned    bool
	IsLocked    bool
	CreatedAt   time.Time
	CreatedBy   string
	ReplyCount  int
	LastReplyAt *time.Time
}

// Post is a reply within a thread.
type Post struct {
	ID        string
	ThreadID  string
	BoardID   string
	Content   string
	ImageURL  *string
	RelayRef  string
	ReplyTo   *string
	CreatedAt time.Time
	CreatedBy string
}
