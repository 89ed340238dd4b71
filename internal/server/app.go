// Package server assembles and runs the application: configuration, storage,
// relay binding, services, the HTTP server and the session sweeper.
package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"boardchat/internal/cryptox"
	"boardchat/internal/logging"
	"boardchat/internal/relay"
	"boardchat/internal/relay/matrixrelay"
	"boardchat/internal/relay/redisrelay"
	"boardchat/internal/server/config"
	"boardchat/internal/server/repositories/repomanager"
	"boardchat/internal/server/services"
	"boardchat/internal/server/web"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    repomanager.RepositoryManager
	sessions *services.SessionManager
	identity *services.IdentityService
	chat     *services.ChatService
	boards   *services.BoardService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON()

	repos, err := repomanager.NewPostgresManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return newApp(ctx, cfg, logger, repos)
}

// newApp wires everything that hangs off an already-opened repository
// manager. It takes ownership of repos and closes it when wiring fails.
func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger, repos repomanager.RepositoryManager) (app *App, err error) {
	defer func() {
		if err == nil {
			return
		}
		if cerr := repos.Close(); cerr != nil {
			logger.Error(ctx, "closing database failed", "err", cerr)
		}
	}()

	key, err := base64.StdEncoding.DecodeString(cfg.ContentKey)
	if err != nil {
		return nil, fmt.Errorf("content key is not valid base64: %w", err)
	}
	cipher, err := cryptox.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("content key error: %w", err)
	}

	rly, err := buildRelay(cfg)
	if err != nil {
		return nil, err
	}

	sessions := services.NewSessionManager(repos.Sessions(), cfg.SessionTTL, logger)
	identity := services.NewIdentityService(repos.Users(), sessions, cfg.RelayDomain, logger)
	chat := services.NewChatService(repos.Channels(), repos.Messages(), repos.Users(), rly, cipher, logger)
	boards := services.NewBoardService(repos.Boards(), rly, logger)

	return &App{
		config:   cfg,
		logger:   logger,
		repos:    repos,
		sessions: sessions,
		identity: identity,
		chat:     chat,
		boards:   boards,
	}, nil
}

func buildRelay(cfg *config.Config) (relay.Relay, error) {
	switch cfg.RelayKind {
	case config.RelayMatrix:
		return matrixrelay.New(cfg.HomeserverURL, cfg.RelayToken), nil
	case config.RelayRedis:
		return redisrelay.New(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})), nil
	default:
		return nil, fmt.Errorf("unknown relay kind %q", cfg.RelayKind)
	}
}

func (app *App) initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
	}()
}

// runSweeper deletes expired sessions on a fixed interval until the context
// is cancelled.
func (app *App) runSweeper(ctx context.Context) {
	ticker := time.NewTicker(app.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := app.sessions.Sweep(ctx); err != nil {
				app.logger.Error(ctx, "session sweep failed", "err", err)
			}
		}
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancel context.CancelFunc) {
	handlers := web.NewHandlers(app.identity, app.sessions, app.chat, app.boards, app.logger)
	srv := web.NewServer(app.config.EndpointAddr, handlers.Router(), app.logger)
	if err := srv.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server error", "err", err)
		cancel()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr, "relay", app.config.RelayKind)

	app.initSignalHandler(cancel)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runSweeper(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancel)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing database failed", "err", err)
	}
}
