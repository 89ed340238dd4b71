package models

import "time"

// Session is a durable login. Only the one-way digest of the opaque token is
// stored; the token itself exists outside the caller's hands exactly once,
// in the create response. A row past ExpiresAt is dead weight until the
// sweep removes it.
type Session struct {
	ID          string
	UserID      string
	TokenDigest string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}
