package cli

import (
	"bufio"
	"context"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/cardsync/internal/client/api"
	"github.com/dmitrijs2005/cardsync/internal/client/config"
	"github.com/dmitrijs2005/cardsync/internal/client/models"
	"github.com/dmitrijs2005/cardsync/internal/client/services"
	"github.com/dmitrijs2005/cardsync/internal/client/storage"
	"github.com/dmitrijs2005/cardsync/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// onlineCheckInterval is how often the background watcher probes the server.
const onlineCheckInterval = 30 * time.Second

type App struct {
	config       *config.Config
	repos        *storage.Repositories
	apiClient    api.Client
	auth         *services.AuthService
	ledger       *services.LedgerService
	breakdowns   *services.BreakdownService
	orchestrator *services.Orchestrator

	session *models.AuthSession
	Mode    Mode
	reader  *bufio.Reader
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {

	ctx := context.Background()

	repos, err := storage.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := api.NewHTTPClient(c.ServerEndpointAddr, c.RequestTimeout)

	auth := services.NewAuthService(apiClient, repos.DB, logger)
	ledger := services.NewLedgerService(repos.Progress)
	syncSvc := services.NewSyncService(apiClient, repos.Progress, logger)
	bd := services.NewBreakdownService(apiClient, repos.Breakdowns, logger)
	orch := services.NewOrchestrator(syncSvc, bd, auth, repos.Metadata, c.AutoPull, c.AutoPush, logger)

	app := &App{
		config:       c,
		repos:        repos,
		apiClient:    apiClient,
		auth:         auth,
		ledger:       ledger,
		breakdowns:   bd,
		orchestrator: orch,
		reader:       bufio.NewReader(os.Stdin),
	}

	// a session saved by a previous run survives a restart
	if s, err := auth.CurrentSession(ctx); err == nil && s.Valid() {
		app.session = s
	}

	return app, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.repos.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.Valid()
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.apiClient.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.Mode == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
