package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"boardchat/internal/apperr"
	"boardchat/internal/logging"
	"boardchat/internal/server/models"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type fakeUserRepo struct {
	users      map[string]*models.User
	emailTaken bool
	lastSeen   map[string]time.Time
}

func newFakeUserRepo(seed ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*models.User{}, lastSeen: map[string]time.Time{}}
	for _, u := range seed {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user")
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (r *fakeUserRepo) EmailTaken(context.Context, string) (bool, error) {
	return r.emailTaken, nil
}

func (r *fakeUserRepo) UpdateLastSeen(_ context.Context, id string, at time.Time) error {
	r.lastSeen[id] = at
	return nil
}

func (r *fakeUserRepo) UpdatePasswordDigest(_ context.Context, id, digest string) error {
	u, ok := r.users[id]
	if !ok {
		return apperr.NotFound("user")
	}
	u.PasswordDigest = &digest
	return nil
}

type fakeSessionRepo struct {
	rows map[string]*models.Session // keyed by token digest
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{rows: map[string]*models.Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *models.Session) error {
	r.rows[s.TokenDigest] = s
	return nil
}

func (r *fakeSessionRepo) GetByDigest(_ context.Context, digest string) (*models.Session, error) {
	if s, ok := r.rows[digest]; ok {
		return s, nil
	}
	return nil, apperr.NotFound("session")
}

func (r *fakeSessionRepo) DeleteByDigest(_ context.Context, digest string) error {
	delete(r.rows, digest)
	return nil
}

func (r *fakeSessionRepo) DeleteByUser(_ context.Context, userID string) error {
	for digest, s := range r.rows {
		if s.UserID == userID {
			delete(r.rows, digest)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for digest, s := range r.rows {
		if s.ExpiresAt.Before(now) {
			delete(r.rows, digest)
			n++
		}
	}
	return n, nil
}

type fakeChannelRepo struct {
	channels map[string]*models.Channel
	members  map[string]map[string]*models.Membership // channel id -> user id
}

func newFakeChannelRepo() *fakeChannelRepo {
	return &fakeChannelRepo{
		channels: map[string]*models.Channel{},
		members:  map[string]map[string]*models.Membership{},
	}
}

func (r *fakeChannelRepo) CreateWithCreator(_ context.Context, c *models.Channel, creatorID string) error {
	r.channels[c.ID] = c
	r.members[c.ID] = map[string]*models.Membership{
		creatorID: {ChannelID: c.ID, UserID: creatorID, IsAdmin: true},
	}
	return nil
}

func (r *fakeChannelRepo) FindDirectByMembers(_ context.Context, userA, userB string) (*models.Channel, error) {
	var ids []string
	for id := range r.channels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c := r.channels[id]
		if c.IsGroup {
			continue
		}
		m := r.members[c.ID]
		if len(m) == 2 && m[userA] != nil && m[userB] != nil {
			return c, nil
		}
	}
	return nil, apperr.NotFound("channel")
}

func (r *fakeChannelRepo) GetByID(_ context.Context, id string) (*models.Channel, error) {
	if c, ok := r.channels[id]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("channel")
}

func (r *fakeChannelRepo) ListByUser(_ context.Context, userID string) ([]*models.Channel, error) {
	var out []*models.Channel
	for id, c := range r.channels {
		if r.members[id][userID] != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeChannelRepo) SetLocked(_ context.Context, id string, locked bool) error {
	c, ok := r.channels[id]
	if !ok {
		return apperr.NotFound("channel")
	}
	c.IsLocked = locked
	return nil
}

func (r *fakeChannelRepo) AddMember(_ context.Context, m *models.Membership) error {
	if r.members[m.ChannelID] == nil {
		r.members[m.ChannelID] = map[string]*models.Membership{}
	}
	r.members[m.ChannelID][m.UserID] = m
	return nil
}

func (r *fakeChannelRepo) GetMember(_ context.Context, channelID, userID string) (*models.Membership, error) {
	if m := r.members[channelID][userID]; m != nil {
		return m, nil
	}
	return nil, apperr.NotFound("membership")
}

func (r *fakeChannelRepo) RemoveMember(_ context.Context, channelID, userID string) error {
	delete(r.members[channelID], userID)
	return nil
}

type fakeMessageRepo struct {
	rows      []*models.Message
	createErr error
}

func (r *fakeMessageRepo) Create(_ context.Context, m *models.Message) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.rows = append(r.rows, m)
	return nil
}

func (r *fakeMessageRepo) ListByChannel(_ context.Context, channelID string, limit, offset int) ([]*models.Message, error) {
	var matched []*models.Message
	for i := len(r.rows) - 1; i >= 0; i-- { // newest first
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

type fakeBoardRepo struct {
	boards  map[string]*models.Board // by name
	threads map[string]*models.Thread
	posts   []*models.Post

	lastLimit, lastOffset int
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{boards: map[string]*models.Board{}, threads: map[string]*models.Thread{}}
}

func (r *fakeBoardRepo) Create(_ context.Context, b *models.Board) error {
	r.boards[b.Name] = b
	return nil
}

func (r *fakeBoardRepo) GetByName(_ context.Context, name string) (*models.Board, error) {
	if b, ok := r.boards[name]; ok {
		return b, nil
	}
	return nil, apperr.NotFound("board")
}

func (r *fakeBoardRepo) GetByID(_ context.Context, id string) (*models.Board, error) {
	for _, b := range r.boards {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, apperr.NotFound("board")
}

func (r *fakeBoardRepo) List(_ context.Context) ([]*models.Board, error) {
	var out []*models.Board
	for _, b := range r.boards {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBoardRepo) CreateThread(_ context.Context, t *models.Thread) error {
	r.threads[t.ID] = t
	return nil
}

func (r *fakeBoardRepo) GetThread(_ context.Context, id string) (*models.Thread, error) {
	if t, ok := r.threads[id]; ok {
		return t, nil
	}
	return nil, apperr.NotFound("thread")
}

func (r *fakeBoardRepo) ListThreads(_ context.Context, boardID string, limit, offset int) ([]*models.Thread, error) {
	r.lastLimit, r.lastOffset = limit, offset
	var out []*models.Thread
	for _, t := range r.threads {
		if t.BoardID == boardID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeBoardRepo) CreatePost(_ context.Context, p *models.Post) error {
	r.posts = append(r.posts, p)
	if t, ok := r.threads[p.ThreadID]; ok {
		t.ReplyCount++
		at := p.CreatedAt
		t.LastReplyAt = &at
	}
	return nil
}

func (r *fakeBoardRepo) ListPosts(_ context.Context, threadID string, limit, offset int) ([]*models.Post, error) {
	r.lastLimit, r.lastOffset = limit, offset
	var out []*models.Post
	for _, p := range r.posts {
		if p.ThreadID == threadID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeRelay struct {
	roomSeq      int
	eventSeq     int
	rooms        []string
	publishes    map[string][]string // room id -> plaintexts
	invited      map[string][]string // room id -> external ids
	createErr    error
	publishErr   error
	inviteErrFor map[string]error // keyed by external id
}

func newFakeRelay() *fakeRelay {
	return &fakeRelay{
		publishes:    map[string][]string{},
		invited:      map[string][]string{},
		inviteErrFor: map[string]error{},
	}
}

func (r *fakeRelay) CreateRoom(_ context.Context, _, _ string, _ bool) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	r.roomSeq++
	id := fmt.Sprintf("!room%d:test", r.roomSeq)
	r.rooms = append(r.rooms, id)
	return id, nil
}

func (r *fakeRelay) Publish(_ context.Context, roomID, plaintext string) (string, error) {
	if r.publishErr != nil {
		return "", r.publishErr
	}
	r.eventSeq++
	r.publishes[roomID] = append(r.publishes[roomID], plaintext)
	return fmt.Sprintf("$event%d", r.eventSeq), nil
}

func (r *fakeRelay) Invite(_ context.Context, roomID, externalID string) error {
	if err := r.inviteErrFor[externalID]; err != nil {
		return err
	}
	r.invited[roomID] = append(r.invited[roomID], externalID)
	return nil
}
