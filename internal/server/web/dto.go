package web

import (
	"time"

	"boardchat/internal/server/models"
)

// Relay room ids and message refs are internal plumbing and never appear in
// API responses.

type userResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       *string    `json:"email,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	IsAnonymous bool       `json:"is_anonymous"`
	CreatedAt   time.Time  `json:"created_at"`
	LastSeen    *time.Time `json:"last_seen,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
		IsAnonymous: u.IsAnonymous,
		CreatedAt:   u.CreatedAt,
		LastSeen:    u.LastSeen,
	}
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type authResponse struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type channelResponse struct {
	ID            string    `json:"id"`
	Name          *string   `json:"name,omitempty"`
	IsGroup       bool      `json:"is_group"`
	IsEncrypted   bool      `json:"is_encrypted"`
	IsLocked      bool      `json:"is_locked"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by"`
	FailedInvites []string  `json:"failed_invites,omitempty"`
}

func toChannelResponse(c *models.Channel) channelResponse {
	return channelResponse{
		ID:          c.ID,
		Name:        c.Name,
		IsGroup:     c.IsGroup,
		IsEncrypted: c.IsEncrypted,
		IsLocked:    c.IsLocked,
		CreatedAt:   c.CreatedAt,
		CreatedBy:   c.CreatedBy,
	}
}

type messageResponse struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	ReplyTo   *string   `json:"reply_to,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessageResponse(m *models.Message) messageResponse {
	return messageResponse{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		ReplyTo:   m.ReplyTo,
		CreatedAt: m.CreatedAt,
	}
}

type boardResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	IsNSFW      bool      `json:"is_nsfw"`
	IsPrivate   bool      `json:"is_private"`
	CreatedAt   time.Time `json:"created_at"`
}

func toBoardResponse(b *models.Board) boardResponse {
	return boardResponse{
		ID:          b.ID,
		Name:        b.Name,
		Title:       b.Title,
		Description: b.Description,
		IsNSFW:      b.IsNSFW,
		IsPrivate:   b.IsPrivate,
		CreatedAt:   b.CreatedAt,
	}
}

type threadResponse struct {
	ID          string     `json:"id"`
	BoardID     string     `json:"board_id"`
	Title       *string    `json:"title,omitempty"`
	Content     string     `json:"content"`
	ImageURL    *string    `json:"image_url,omitempty"`
	IsPinned    bool       `json:"is_pinned"`
	IsLocked    bool       `json:"is_locked"`
	CreatedAt   time.Time  `json:"created_at"`
	CreatedBy   string     `json:"created_by"`
	ReplyCount  int        `json:"reply_count"`
	LastReplyAt *time.Time `json:"last_reply_at,omitempty"`
}

func toThreadResponse(t *models.Thread) threadResponse {
	return threadResponse{
		ID:          t.ID,
		BoardID:     t.BoardID,
		Title:       t.Title,
		Content:     t.Content,
		ImageURL:    t.ImageURL,
		IsPinned:    t.IsPinned,
		IsLocked:    t.IsLocked,
		CreatedAt:   t.CreatedAt,
		CreatedBy:   t.CreatedBy,
		ReplyCount:  t.ReplyCount,
		LastReplyAt: t.LastReplyAt,
	}
}

type postResponse struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url,omitempty"`
	ReplyTo   *string   `json:"reply_to,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}

func toPostResponse(p *models.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		ThreadID:  p.ThreadID,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		ReplyTo:   p.ReplyTo,
		CreatedAt: p.CreatedAt,
		CreatedBy: p.CreatedBy,
	}
}
