package boards

import (
	"context"
	"database/sql"
	"errors"

	"boardchat/internal/apperr"
	"boardchat/internal/dbx"
	"boardchat/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, board *models.Board) error {
	query := `
		INSERT INTO boards (id, name, title, description, relay_room_id, is_nsfw, is_private, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		board.ID, board.Name, board.Title, board.Description, board.RelayRoomID,
		board.IsNSFW, board.IsPrivate, board.CreatedAt, board.CreatedBy)
	if err != nil {
		return apperr.Dependency("inserting board", err)
	}
	return nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Board, error) {
	query := `
		SELECT id, name, title, description, relay_room_id, is_nsfw, is_private, created_at, created_by
		FROM boards WHERE name = $1
	`
	b := &models.Board{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&b.ID, &b.Name, &b.Title,
		&b.Description, &b.RelayRoomID, &b.IsNSFW, &b.IsPrivate, &b.CreatedAt, &b.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("board")
		}
		return nil, apperr.Dependency("selecting board", err)
	}
	return b, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Board, error) {
	query := `
		SELECT id, name, title, description, relay_room_id, is_nsfw, is_private, created_at, created_by
		FROM boards WHERE id = $1
	`
	b := &models.Board{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Name, &b.Title,
		&b.Description, &b.RelayRoomID, &b.IsNSFW, &b.IsPrivate, &b.CreatedAt, &b.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("board")
		}
		return nil, apperr.Dependency("selecting board", err)
	}
	return b, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Board, error) {
	query := `
		SELECT id, name, title, description, relay_room_id, is_nsfw, is_private, created_at, created_by
		FROM boards ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperr.Dependency("listing boards", err)
	}
	defer rows.Close()

	var result []*models.Board
	for rows.Next() {
		b := &models.Board{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Title, &b.Description, &b.RelayRoomID,
			&b.IsNSFW, &b.IsPrivate, &b.CreatedAt, &b.CreatedBy); err != nil {
			return nil, apperr.Dependency("scanning board", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("listing boards", err)
	}
	return result, nil
}

const threadColumns = `id, board_id, title, content, image_url, relay_ref, is_pinned, is_locked, created_at, created_by, reply_count, last_reply_at`

func (r *PostgresRepository) CreateThread(ctx context.Context, thread *models.Thread) error {
	query := `
		INSERT INTO threads (id, board_id, title, content, image_url, relay_ref, is_pinned, is_locked, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		thread.ID, thread.BoardID, thread.Title, thread.Content, thread.ImageURL,
		thread.RelayRef, thread.IsPinned, thread.IsLocked, thread.CreatedAt, thread.CreatedBy)
	if err != nil {
		return apperr.Dependency("inserting thread", err)
	}
	return nil
}

func (r *PostgresRepository) GetThread(ctx context.Context, id string) (*models.Thread, error) {
	query := `SELECT ` + threadColumns + ` FROM threads WHERE id = $1`
	th := &models.Thread{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&th.ID, &th.BoardID, &th.Title,
		&th.Content, &th.ImageURL, &th.RelayRef, &th.IsPinned, &th.IsLocked,
		&th.CreatedAt, &th.CreatedBy, &th.ReplyCount, &th.LastReplyAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("thread")
		}
		return nil, apperr.Dependency("selecting thread", err)
	}
	return th, nil
}

func (r *PostgresRepository) ListThreads(ctx context.Context, boardID string, limit, offset int) ([]*models.Thread, error) {
	query := `
		SELECT ` + threadColumns + ` FROM threads
		WHERE board_id = $1
		ORDER BY is_pinned DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, boardID, limit, offset)
	if err != nil {
		return nil, apperr.Dependency("listing threads", err)
	}
	defer rows.Close()

	var result []*models.Thread
	for rows.Next() {
		th := &models.Thread{}
		if err := rows.Scan(&th.ID, &th.BoardID, &th.Title, &th.Content, &th.ImageURL,
			&th.RelayRef, &th.IsPinned, &th.IsLocked, &th.CreatedAt, &th.CreatedBy,
			&th.ReplyCount, &th.LastReplyAt); err != nil {
			return nil, apperr.Dependency("scanning thread", err)
		}
		result = append(result, th)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("listing threads", err)
	}
	return result, nil
}

func (r *PostgresRepository) CreatePost(ctx context.Context, post *models.Post) error {
	err := dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		insertPost := `
			INSERT INTO posts (id, thread_id, board_id, content, image_url, relay_ref, reply_to, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		_, err := tx.ExecContext(ctx, insertPost,
			post.ID, post.ThreadID, post.BoardID, post.Content, post.ImageURL,
			post.RelayRef, post.ReplyTo, post.CreatedAt, post.CreatedBy)
		if err != nil {
			return err
		}

		bump := `
			UPDATE threads SET reply_count = reply_count + 1, last_reply_at = $1
			WHERE id = $2
		`
		_, err = tx.ExecContext(ctx, bump, post.CreatedAt, post.ThreadID)
		return err
	})
	if err != nil {
		return apperr.Dependency("inserting post", err)
	}
	return nil
}

func (r *PostgresRepository) ListPosts(ctx context.Context, threadID string, limit, offset int) ([]*models.Post, error) {
	query := `
		SELECT id, thread_id, board_id, content, image_url, relay_ref, reply_to, created_at, created_by
		FROM posts
		WHERE thread_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, threadID, limit, offset)
	if err != nil {
		return nil, apperr.Dependency("listing posts", err)
	}
	defer rows.Close()

	var result []*models.Post
	for rows.Next() {
		p := &models.Post{}
		if err := rows.Scan(&p.ID, &p.ThreadID, &p.BoardID, &p.Content, &p.ImageURL,
			&p.RelayRef, &p.ReplyTo, &p.CreatedAt, &p.CreatedBy); err != nil {
			return nil, apperr.Dependency("scanning post", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency("listing posts", err)
	}
	return result, nil
}
