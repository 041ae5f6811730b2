// Package server initializes and runs the SmartLearn server: it opens the
// store, applies migrations, wires the services into the TCP endpoint, and
// handles graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/smartlearn/internal/logging"
	"github.com/dmitrijs2005/smartlearn/internal/server/config"
	"github.com/dmitrijs2005/smartlearn/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/smartlearn/internal/server/services"
	"github.com/dmitrijs2005/smartlearn/internal/server/tcp"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *tcp.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, m, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	userService := services.NewUserService(db, m, cfg)
	knowledgeService := services.NewKnowledgeService(db, m)

	dispatcher := tcp.NewDispatcher(logger)
	tcp.NewHandlers(userService, knowledgeService, logger).Register(dispatcher)

	srv := tcp.NewServer(cfg.EndpointAddr, dispatcher, logger, cfg.ShutdownGracePeriod)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

// initSignalHandler cancels the run context on SIGINT/SIGTERM/SIGQUIT.
func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a signal arrives or the listener fails, then closes the
// store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "closing database", "error", cerr.Error())
	}
	return err
}
