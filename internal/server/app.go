// Package server wires configuration, storage, moderation and the HTTP API
// into a runnable Inkly server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/inkly/inkly/internal/content"
	"github.com/inkly/inkly/internal/logging"
	"github.com/inkly/inkly/internal/server/config"
	"github.com/inkly/inkly/internal/server/httpapi"
	"github.com/inkly/inkly/internal/server/repositories/repomanager"
	"github.com/inkly/inkly/internal/server/services"
)

// openDB is swapped in tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.HTTPServer
}

// NewGate builds the moderation gate from the configured policy file, or
// the built-in policy when none is set.
func NewGate(c *config.Config) (*content.Gate, error) {
	if c.ModerationPolicyFile == "" {
		return content.NewGate(nil), nil
	}
	p, err := content.LoadPolicy(c.ModerationPolicyFile)
	if err != nil {
		return nil, err
	}
	return content.NewGate(p), nil
}

// NewApp opens the database, applies migrations and assembles the services.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, out)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	gate, err := NewGate(c)
	if err != nil {
		return nil, fmt.Errorf("moderation policy error: %w", err)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	svc := httpapi.Services{
		Accounts:      services.NewAccountService(db, rm),
		Onboarding:    services.NewOnboardingService(db, rm, gate),
		Profile:       services.NewProfileService(db, rm, gate),
		Notifications: services.NewNotificationSettingsService(db, rm),
		Inks:          services.NewInkService(db, rm, gate),
		Avatars:       services.NewAvatarService(db, rm, c),
		Health:        db.PingContext,
	}

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(svc, []byte(c.SecretKey), logger)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: httpapi.NewHTTPServer(c.HTTPAddr, router, logger),
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

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
