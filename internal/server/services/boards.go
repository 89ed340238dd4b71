package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"boardchat/internal/apperr"
	"boardchat/internal/logging"
	"boardchat/internal/relay"
	"boardchat/internal/server/models"
	"boardchat/internal/server/repositories/boards"
)

var boardNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,31}$`)

// BoardService runs the public forum half: boards, threads and posts. Every
// board is mirrored by an unencrypted relay room so forum activity shows up
// on the relay too; content is public and stored in the clear.
type BoardService struct {
	boards boards.Repository
	relay  relay.Relay
	log    logging.Logger
	now    func() time.Time
}

func NewBoardService(repo boards.Repository, r relay.Relay, log logging.Logger) *BoardService {
	return &BoardService{boards: repo, relay: r, log: log, now: time.Now}
}

type CreateBoardRequest struct {
	Name        string
	Title       string
	Description *string
	IsNSFW      bool
	IsPrivate   bool
}

func (s *BoardService) CreateBoard(ctx context.Context, creatorID string, req CreateBoardRequest) (*models.Board, error) {
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if !boardNameRe.MatchString(name) {
		return nil, apperr.Validation("board name must be 2-32 lowercase letters, digits, - or _")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperr.Validation("board title is required")
	}

	if _, err := s.boards.GetByName(ctx, name); err == nil {
		return nil, apperr.Validation("board name already taken")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	topic := ""
	if req.Description != nil {
		topic = *req.Description
	}
	roomID, err := s.relay.CreateRoom(ctx, req.Title, topic, false)
	if err != nil {
		return nil, err
	}

	board := &models.Board{
		ID:          uuid.NewString(),
		Name:        name,
		Title:       req.Title,
		Description: req.Description,
		RelayRoomID: roomID,
		IsNSFW:      req.IsNSFW,
		IsPrivate:   req.IsPrivate,
		CreatedAt:   s.now().UTC(),
		CreatedBy:   creatorID,
	}
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "board created", "board", name, "room_id", roomID)
	return board, nil
}

func (s *BoardService) ListBoards(ctx context.Context) ([]*models.Board, error) {
	return s.boards.List(ctx)
}

func (s *BoardService) GetBoard(ctx context.Context, name string) (*models.Board, error) {
	return s.boards.GetByName(ctx, strings.ToLower(name))
}

type CreateThreadRequest struct {
	Title    *string
	Content  string
	ImageURL *string
}

// CreateThread announces the thread on the board's relay room, then stores
// it. Same order as messages: no relay acceptance, no local row.
func (s *BoardService) CreateThread(ctx context.Context, boardName, creatorID string, req CreateThreadRequest) (*models.Thread, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperr.Validation("thread content is required")
	}
	board, err := s.boards.GetByName(ctx, strings.ToLower(boardName))
	if err != nil {
		return nil, err
	}

	ref, err := s.relay.Publish(ctx, board.RelayRoomID, threadAnnouncement(req.Title, req.Content))
	if err != nil {
		return nil, err
	}

	thread := &models.Thread{
		ID:        uuid.NewString(),
		BoardID:   board.ID,
		Title:     req.Title,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		RelayRef:  ref,
		CreatedAt: s.now().UTC(),
		CreatedBy: creatorID,
	}
	if err := s.boards.CreateThread(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

func (s *BoardService) GetThread(ctx context.Context, id string) (*models.Thread, error) {
	return s.boards.GetThread(ctx, id)
}

func (s *BoardService) ListThreads(ctx context.Context, boardName string, limit, offset int) ([]*models.Thread, error) {
	board, err := s.boards.GetByName(ctx, strings.ToLower(boardName))
	if err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)
	return s.boards.ListThreads(ctx, board.ID, limit, offset)
}

type CreatePostRequest struct {
	Content  string
	ImageURL *string
	ReplyTo  *string
}

// CreatePost replies within a thread. Locked threads reject new posts.
func (s *BoardService) CreatePost(ctx context.Context, threadID, creatorID string, req CreatePostRequest) (*models.Post, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperr.Validation("post content is required")
	}
	thread, err := s.boards.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.IsLocked {
		return nil, apperr.State("thread is locked")
	}
	board, err := s.boards.GetByID(ctx, thread.BoardID)
	if err != nil {
		return nil, err
	}

	ref, err := s.relay.Publish(ctx, board.RelayRoomID, req.Content)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:        uuid.NewString(),
		ThreadID:  thread.ID,
		BoardID:   board.ID,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		RelayRef:  ref,
		ReplyTo:   req.ReplyTo,
		CreatedAt: s.now().UTC(),
		CreatedBy: creatorID,
	}
	if err := s.boards.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BoardService) ListPosts(ctx context.Context, threadID string, limit, offset int) ([]*models.Post, error) {
	if _, err := s.boards.GetThread(ctx, threadID); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)
	return s.boards.ListPosts(ctx, threadID, limit, offset)
}

func threadAnnouncement(title *string, content string) string {
	if title != nil && *title != "" {
		return *title + "\n\n" + content
	}
	return content
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
