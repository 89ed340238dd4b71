package web

import (
	"context"
	"fmt"
	"time"

	"boardchat/internal/apperr"
	"boardchat/internal/logging"
	"boardchat/internal/server/models"
)

// In-memory repository and relay stand-ins for exercising the HTTP surface
// end to end without a database.

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type memUserRepo struct {
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]*models.User{}} }

func (r *memUserRepo) Create(_ context.Context, u *models.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user")
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (r *memUserRepo) EmailTaken(context.Context, string) (bool, error) { return false, nil }

func (r *memUserRepo) UpdateLastSeen(_ context.Context, id string, at time.Time) error {
	if u, ok := r.users[id]; ok {
		u.LastSeen = &at
	}
	return nil
}

func (r *memUserRepo) UpdatePasswordDigest(_ context.Context, id, digest string) error {
	u, ok := r.users[id]
	if !ok {
		return apperr.NotFound("user")
	}
	u.PasswordDigest = &digest
	return nil
}

type memSessionRepo struct {
	rows map[string]*models.Session
}

func newMemSessionRepo() *memSessionRepo { return &memSessionRepo{rows: map[string]*models.Session{}} }

func (r *memSessionRepo) Create(_ context.Context, s *models.Session) error {
	r.rows[s.TokenDigest] = s
	return nil
}

func (r *memSessionRepo) GetByDigest(_ context.Context, digest string) (*models.Session, error) {
	if s, ok := r.rows[digest]; ok {
		return s, nil
	}
	return nil, apperr.NotFound("session")
}

func (r *memSessionRepo) DeleteByDigest(_ context.Context, digest string) error {
	delete(r.rows, digest)
	return nil
}

func (r *memSessionRepo) DeleteByUser(_ context.Context, userID string) error {
	for digest, s := range r.rows {
		if s.UserID == userID {
			delete(r.rows, digest)
		}
	}
	return nil
}

func (r *memSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for digest, s := range r.rows {
		if s.ExpiresAt.Before(now) {
			delete(r.rows, digest)
			n++
		}
	}
	return n, nil
}

type memChannelRepo struct {
	channels map[string]*models.Channel
	members  map[string]map[string]*models.Membership
}

func newMemChannelRepo() *memChannelRepo {
	return &memChannelRepo{
		channels: map[string]*models.Channel{},
		members:  map[string]map[string]*models.Membership{},
	}
}

func (r *memChannelRepo) CreateWithCreator(_ context.Context, c *models.Channel, creatorID string) error {
	r.channels[c.ID] = c
	r.members[c.ID] = map[string]*models.Membership{
		creatorID: {ChannelID: c.ID, UserID: creatorID, IsAdmin: true},
	}
	return nil
}

func (r *memChannelRepo) FindDirectByMembers(_ context.Context, userA, userB string) (*models.Channel, error) {
	for id, c := range r.channels {
		if c.IsGroup || len(r.members[id]) != 2 {
			continue
		}
		if r.members[id][userA] != nil && r.members[id][userB] != nil {
			return c, nil
		}
	}
	return nil, apperr.NotFound("channel")
}

func (r *memChannelRepo) GetByID(_ context.Context, id string) (*models.Channel, error) {
	if c, ok := r.channels[id]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("channel")
}

func (r *memChannelRepo) ListByUser(_ context.Context, userID string) ([]*models.Channel, error) {
	var out []*models.Channel
	for id, c := range r.channels {
		if r.members[id][userID] != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memChannelRepo) SetLocked(_ context.Context, id string, locked bool) error {
	c, ok := r.channels[id]
	if !ok {
		return apperr.NotFound("channel")
	}
	c.IsLocked = locked
	return nil
}

func (r *memChannelRepo) AddMember(_ context.Context, m *models.Membership) error {
	if r.members[m.ChannelID] == nil {
		r.members[m.ChannelID] = map[string]*models.Membership{}
	}
	r.members[m.ChannelID][m.UserID] = m
	return nil
}

func (r *memChannelRepo) GetMember(_ context.Context, channelID, userID string) (*models.Membership, error) {
	if m := r.members[channelID][userID]; m != nil {
		return m, nil
	}
	return nil, apperr.NotFound("membership")
}

func (r *memChannelRepo) RemoveMember(_ context.Context, channelID, userID string) error {
	delete(r.members[channelID], userID)
	return nil
}

type memMessageRepo struct {
	rows []*models.Message
}

func (r *memMessageRepo) Create(_ context.Context, m *models.Message) error {
	r.rows = append(r.rows, m)
	return nil
}

func (r *memMessageRepo) ListByChannel(_ context.Context, channelID string, limit, offset int) ([]*models.Message, error) {
	var matched []*models.Message
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].ChannelID == channelID {
			matched = append(matched, r.rows[i])
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

type memBoardRepo struct {
	boards  map[string]*models.Board
	threads map[string]*models.Thread
	posts   []*models.Post
}

func newMemBoardRepo() *memBoardRepo {
	return &memBoardRepo{boards: map[string]*models.Board{}, threads: map[string]*models.Thread{}}
}

func (r *memBoardRepo) Create(_ context.Context, b *models.Board) error {
	r.boards[b.Name] = b
	return nil
}

func (r *memBoardRepo) GetByName(_ context.Context, name string) (*models.Board, error) {
	if b, ok := r.boards[name]; ok {
		return b, nil
	}
	return nil, apperr.NotFound("board")
}

func (r *memBoardRepo) GetByID(_ context.Context, id string) (*models.Board, error) {
	for _, b := range r.boards {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, apperr.NotFound("board")
}

func (r *memBoardRepo) List(_ context.Context) ([]*models.Board, error) {
	var out []*models.Board
	for _, b := range r.boards {
		out = append(out, b)
	}
	return out, nil
}

func (r *memBoardRepo) CreateThread(_ context.Context, t *models.Thread) error {
	r.threads[t.ID] = t
	return nil
}

func (r *memBoardRepo) GetThread(_ context.Context, id string) (*models.Thread, error) {
	if t, ok := r.threads[id]; ok {
		return t, nil
	}
	return nil, apperr.NotFound("thread")
}

func (r *memBoardRepo) ListThreads(_ context.Context, boardID string, _, _ int) ([]*models.Thread, error) {
	var out []*models.Thread
	for _, t := range r.threads {
		if t.BoardID == boardID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memBoardRepo) CreatePost(_ context.Context, p *models.Post) error {
	r.posts = append(r.posts, p)
	if t, ok := r.threads[p.ThreadID]; ok {
		t.ReplyCount++
	}
	return nil
}

func (r *memBoardRepo) ListPosts(_ context.Context, threadID string, _, _ int) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range r.posts {
		if p.ThreadID == threadID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memRelay struct {
	roomSeq      int
	eventSeq     int
	inviteErrFor map[string]error
}

func newMemRelay() *memRelay { return &memRelay{inviteErrFor: map[string]error{}} }

func (r *memRelay) CreateRoom(context.Context, string, string, bool) (string, error) {
	r.roomSeq++
	return fmt.Sprintf("!room%d:test", r.roomSeq), nil
}

func (r *memRelay) Publish(context.Context, string, string) (string, error) {
	r.eventSeq++
	return fmt.Sprintf("$event%d", r.eventSeq), nil
}

func (r *memRelay) Invite(_ context.Context, _, externalID string) error {
	return r.inviteErrFor[externalID]
}
