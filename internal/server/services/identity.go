package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"boardchat/internal/apperr"
	"boardchat/internal/cryptox"
	"boardchat/internal/logging"
	"boardchat/internal/server/models"
	"boardchat/internal/server/repositories/users"
)

// IdentityService handles registration, login and account operations. Every
// account gets an external relay identity derived from its username so the
// chat pipeline can invite it to rooms.
type IdentityService struct {
	users    users.Repository
	sessions *SessionManager
	domain   string
	log      logging.Logger
	now      func() time.Time
}

func NewIdentityService(repo users.Repository, sessions *SessionManager, domain string, log logging.Logger) *IdentityService {
	return &IdentityService{users: repo, sessions: sessions, domain: domain, log: log, now: time.Now}
}

type RegisterRequest struct {
	Username    string
	Password    string
	Email       *string
	IsAnonymous bool
}

// Register creates an account and logs it in. Anonymous accounts carry no
// credential and can never log in again once their session ends.
func (s *IdentityService) Register(ctx context.Context, req RegisterRequest) (*models.User, *IssuedSession, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, nil, apperr.Validation("username is required")
	}
	if !req.IsAnonymous && req.Password == "" {
		return nil, nil, apperr.Validation("password is required")
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, nil, apperr.Validation("username already taken")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, nil, err
	}
	if req.Email != nil {
		taken, err := s.users.EmailTaken(ctx, *req.Email)
		if err != nil {
			return nil, nil, err
		}
		if taken {
			return nil, nil, apperr.Validation("email already registered")
		}
	}

	var passwordDigest *string
	if !req.IsAnonymous {
		digest, err := cryptox.HashPassword(req.Password)
		if err != nil {
			return nil, nil, err
		}
		passwordDigest = &digest
	}

	user := &models.User{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          req.Email,
		PasswordDigest: passwordDigest,
		ExternalID:     fmt.Sprintf("@%s:%s", strings.ToLower(username), s.domain),
		IsAnonymous:    req.IsAnonymous,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	issued, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info(ctx, "user registered", "user_id", user.ID, "anonymous", user.IsAnonymous)
	return user, issued, nil
}

// Login verifies credentials and issues a session. Unknown usernames and bad
// passwords produce the same error. Anonymous accounts carry no credential
// and skip verification.
func (s *IdentityService) Login(ctx context.Context, username, password string) (*models.User, *IssuedSession, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, nil, apperr.Authentication("invalid credentials")
		}
		return nil, nil, err
	}

	if !user.IsAnonymous {
		if user.PasswordDigest == nil {
			return nil, nil, apperr.Authentication("invalid credentials")
		}
		ok, err := cryptox.VerifyPassword(password, *user.PasswordDigest)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, apperr.Authentication("invalid credentials")
		}
	}

	issued, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastSeen(ctx, user.ID, now); err != nil {
		s.log.Warn(ctx, "updating last seen failed", "user_id", user.ID, "err", err)
	} else {
		user.LastSeen = &now
	}
	return user, issued, nil
}

// Logout revokes the presented session token.
func (s *IdentityService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// GetUser resolves a user by id.
func (s *IdentityService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// ChangePassword replaces the credential, revokes every existing session and
// issues a fresh one for the caller.
func (s *IdentityService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (*IssuedSession, error) {
	if newPassword == "" {
		return nil, apperr.Validation("new password is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.PasswordDigest == nil {
		return nil, apperr.Validation("anonymous accounts have no password")
	}

	ok, err := cryptox.VerifyPassword(oldPassword, *user.PasswordDigest)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Authentication("invalid credentials")
	}

	digest, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdatePasswordDigest(ctx, userID, digest); err != nil {
		return nil, err
	}
	if err := s.sessions.RevokeUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.sessions.Create(ctx, userID)
}
