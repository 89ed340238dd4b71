package boards

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"boardchat/internal/apperr"
	"boardchat/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGetByName_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+boards\s+WHERE\s+name`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByName(context.Background(), "missing")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "title", "description", "relay_room_id",
		"is_nsfw", "is_private", "created_at", "created_by"}).
		AddRow("b-1", "tech", "Technology", nil, "!room:test", false, false, now, "u-1")
	mock.ExpectQuery(`(?s)FROM\s+boards\s+WHERE\s+id`).
		WithArgs("b-1").
		WillReturnRows(rows)

	b, err := repo.GetByID(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if b.Name != "tech" || b.RelayRoomID != "!room:test" {
		t.Fatalf("unexpected board: %+v", b)
	}
}

func TestCreatePost_BumpsThreadInTx(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+posts`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^\s*UPDATE\s+threads\s+SET\s+reply_count`).
		WithArgs(now, "t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := &models.Post{ID: "p-1", ThreadID: "t-1", BoardID: "b-1", Content: "re", RelayRef: "$ev", CreatedAt: now, CreatedBy: "u-1"}
	if err := repo.CreatePost(context.Background(), p); err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreatePost_RollsBackOnBumpError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+posts`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^\s*UPDATE\s+threads`).
		WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	p := &models.Post{ID: "p-1", ThreadID: "t-1", BoardID: "b-1", CreatedAt: time.Now().UTC(), CreatedBy: "u-1"}
	err := repo.CreatePost(context.Background(), p)
	if !apperr.IsKind(err, apperr.KindDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
