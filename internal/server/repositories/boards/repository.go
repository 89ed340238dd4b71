// Package boards provides persistence for the forum half: boards, threads
// and posts. Forum content is public and stored in the clear.
package boards

import (
	"context"

	"boardchat/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, board *models.Board) error
	GetByName(ctx context.Context, name string) (*models.Board, error)
	GetByID(ctx context.Context, id string) (*models.Board, error)
	List(ctx context.Context) ([]*models.Board, error)

	CreateThread(ctx context.Context, thread *models.Thread) error
	GetThread(ctx context.Context, id string) (*models.Thread, error)
	// ListThreads pages a board's threads, pinned first, then newest first.
	ListThreads(ctx context.Context, boardID string, limit, offset int) ([]*models.Thread, error)

	// CreatePost inserts the post and bumps the thread's reply counters in
	// one transaction.
	CreatePost(ctx context.Context, post *models.Post) error
	ListPosts(ctx context.Context, threadID string, limit, offset int) ([]*models.Post, error)
}
