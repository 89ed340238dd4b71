package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"boardchat/internal/server/migrations"
	"boardchat/internal/server/repositories/boards"
	"boardchat/internal/server/repositories/channels"
	"boardchat/internal/server/repositories/messages"
	"boardchat/internal/server/repositories/sessions"
	"boardchat/internal/server/repositories/users"
)

type PostgresManager struct {
	db       *sql.DB
	users    users.Repository
	sessions sessions.Repository
	channels channels.Repository
	messages messages.Repository
	boards   boards.Repository
}

func (m *PostgresManager) Conn() *sql.DB                 { return m.db }
func (m *PostgresManager) Users() users.Repository       { return m.users }
func (m *PostgresManager) Sessions() sessions.Repository { return m.sessions }
func (m *PostgresManager) Channels() channels.Repository { return m.channels }
func (m *PostgresManager) Messages() messages.Repository { return m.messages }
func (m *PostgresManager) Boards() boards.Repository     { return m.boards }
func (m *PostgresManager) Close() error                  { return m.db.Close() }

// gooseUpContext is a seam for testing RunMigrations.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded goose migrations.
func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

// NewPostgresManager opens the database, builds the repositories and brings
// the schema up to date.
func NewPostgresManager(ctx context.Context, dsn string) (*PostgresManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := &PostgresManager{
		db:       db,
		users:    users.NewPostgresRepository(db),
		sessions: sessions.NewPostgresRepository(db),
		channels: channels.NewPostgresRepository(db),
		messages: messages.NewPostgresRepository(db),
		boards:   boards.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}
