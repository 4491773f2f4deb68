// Package server initializes and runs the wishlist server. It wires the
// database, migrations, object storage and services together, starts the
// HTTP endpoint and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/estermelatii/wishkeeper/internal/logging"
	"github.com/estermelatii/wishkeeper/internal/server/auth"
	"github.com/estermelatii/wishkeeper/internal/server/config"
	"github.com/estermelatii/wishkeeper/internal/server/httpapi"
	"github.com/estermelatii/wishkeeper/internal/server/repositories/repomanager"
	"github.com/estermelatii/wishkeeper/internal/server/services"
	"github.com/estermelatii/wishkeeper/internal/server/storage"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	authService     *services.AuthService
	wishlistService *services.WishlistService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	blobs, err := storage.NewS3BlobStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("blob storage init error: %w", err)
	}

	as := services.NewAuthService(db, rm, auth.NewBcryptHasher(), logger, cfg)
	ws := services.NewWishlistService(db, rm, blobs, logger)

	return &App{
		config:          cfg,
		logger:          logger,
		db:              db,
		authService:     as,
		wishlistService: ws,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.authService, app.wishlistService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
