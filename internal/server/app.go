// Package server initializes and runs the auth server. It selects storage,
// revocation and mail backends from the configuration, starts the HTTP API and
// the gRPC health service, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/mailer"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/revocation"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/authkeeper/internal/server/grpc"
	hs "github.com/dmitrijs2005/authkeeper/internal/server/http"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	rdb         *redis.Client
	authService *services.AuthService
	checks      map[string]gs.Check
}

// NewApp connects to the configured backends. An empty DatabaseDSN, RedisAddr
// or SMTPHost selects the in-memory store, in-memory revocation list and
// log-only notifier respectively.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	app := &App{config: c, logger: logger, checks: map[string]gs.Check{}}

	rm, err := app.initStorage(ctx)
	if err != nil {
		return nil, err
	}

	revoked := app.initRevocation()

	var notifier mailer.Notifier
	if c.SMTPHost != "" {
		notifier = mailer.NewSMTPNotifier(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPassword, c.MailFrom)
	} else {
		logger.Warn(ctx, "no SMTP host configured, emails will only be logged")
		notifier = mailer.NewLogNotifier(logger.With("module", "mailer"))
	}

	app.authService = services.NewAuthService(app.db, rm, revoked, notifier, logger, c)
	return app, nil
}

func (app *App) initStorage(ctx context.Context) (repomanager.RepositoryManager, error) {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database DSN configured, using in-memory user store")
		return repomanager.NewInMemoryRepositoryManager(), nil
	}

	db, err := repomanager.OpenPostgres(ctx, app.config.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app.db = db
	app.checks["database"] = db.PingContext
	return rm, nil
}

func (app *App) initRevocation() revocation.Repository {
	if app.config.RedisAddr == "" {
		return revocation.NewMemoryRepository()
	}

	app.rdb = redis.NewClient(&redis.Options{
		Addr:     app.config.RedisAddr,
		Password: app.config.RedisPassword,
		DB:       app.config.RedisDB,
	})
	app.checks["redis"] = func(ctx context.Context) error {
		return app.rdb.Ping(ctx).Err()
	}
	return revocation.NewRedisRepository(app.rdb)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s, err := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.config.AuthPathPrefix, app.logger, app.authService)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.checks)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or one of
// the servers fails, then releases the backends.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	gin.SetMode(gin.ReleaseMode)
	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
}

func (app *App) close(ctx context.Context) {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}
	if app.rdb != nil {
		if err := app.rdb.Close(); err != nil {
			app.logger.Error(ctx, "redis close error", "error", err)
		}
	}
}
