// Package services implements the application logic between the HTTP layer
// and the repositories: identity and sessions, the encrypted channel
// pipeline, and the forum.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"boardchat/internal/apperr"
	"boardchat/internal/cryptox"
	"boardchat/internal/logging"
	"boardchat/internal/server/models"
	"boardchat/internal/server/repositories/sessions"
)

// IssuedSession pairs a freshly created session row with the plaintext token.
// This is the only place the token exists in the clear; everything after this
// point works with the digest.
type IssuedSession struct {
	Session *models.Session
	Token   string
}

// SessionManager issues, validates, revokes and sweeps login sessions.
type SessionManager struct {
	repo sessions.Repository
	ttl  time.Duration
	log  logging.Logger
	now  func() time.Time
}

func NewSessionManager(repo sessions.Repository, ttl time.Duration, log logging.Logger) *SessionManager {
	return &SessionManager{repo: repo, ttl: ttl, log: log, now: time.Now}
}

// Create issues a new session for the user. The returned token must be handed
// to the client now; it cannot be recovered later.
func (m *SessionManager) Create(ctx context.Context, userID string) (*IssuedSession, error) {
	token, digest, err := cryptox.IssueToken()
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	session := &models.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		TokenDigest: digest,
		IssuedAt:    now,
		ExpiresAt:   now.Add(m.ttl),
	}
	if err := m.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return &IssuedSession{Session: session, Token: token}, nil
}

// Validate resolves a presented token to its user id. Absent and expired
// sessions produce the same authentication error so a caller cannot probe
// which tokens once existed.
func (m *SessionManager) Validate(ctx context.Context, token string) (string, error) {
	session, err := m.repo.GetByDigest(ctx, cryptox.DigestToken(token))
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return "", apperr.Authentication("invalid or expired session")
		}
		return "", err
	}
	if !m.now().Before(session.ExpiresAt) {
		return "", apperr.Authentication("invalid or expired session")
	}
	return session.UserID, nil
}

// Revoke ends the session behind the token. Revoking an unknown token is a
// no-op so logout is idempotent.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	return m.repo.DeleteByDigest(ctx, cryptox.DigestToken(token))
}

// RevokeUser ends every session the user holds.
func (m *SessionManager) RevokeUser(ctx context.Context, userID string) error {
	return m.repo.DeleteByUser(ctx, userID)
}

// Sweep deletes every expired session row and reports how many went away.
func (m *SessionManager) Sweep(ctx context.Context) (int64, error) {
	n, err := m.repo.DeleteExpired(ctx, m.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		m.log.Info(ctx, "swept expired sessions", "count", n)
	}
	return n, nil
}
