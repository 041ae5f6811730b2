// Package cli implements the interactive SmartLearn client: a small REPL over
// one persistent connection to the server.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/smartlearn/internal/client/client"
	"github.com/dmitrijs2005/smartlearn/internal/client/config"
	"github.com/dmitrijs2005/smartlearn/internal/client/services"
	"github.com/dmitrijs2005/smartlearn/internal/logging"
)

type App struct {
	config           *config.Config
	logger           logging.Logger
	api              *client.Client
	authService      *services.AuthService
	knowledgeService *services.KnowledgeService
	userName         string
	reader           *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	sl := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	logger := logging.NewSlogLogger(sl)

	api, err := client.Dial(ctx, c.ServerEndpointAddr, logger, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{
		config:           c,
		logger:           logger,
		api:              api,
		authService:      services.NewAuthService(api),
		knowledgeService: services.NewKnowledgeService(api),
		reader:           bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.userName
	}
	return "guest"
}

func (a *App) Run(ctx context.Context) {
	defer a.api.Close()
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}
