// Package httpserver exposes the sync API over HTTP JSON using gin.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cardsync/internal/logging"
	"github.com/dmitrijs2005/cardsync/internal/server/models"
	"github.com/dmitrijs2005/cardsync/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UserService is the account surface the HTTP layer needs.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	Identify(ctx context.Context, token string) (*models.User, error)
	AdminUsernames(ctx context.Context) ([]string, error)
}

// ProgressService applies pushed ledgers and serves pulls.
type ProgressService interface {
	Push(ctx context.Context, userID string, entries map[string]models.ProgressEntry) (*services.PushResult, error)
	Pull(ctx context.Context, userID string) (map[string]models.ProgressEntry, error)
}

// BreakdownService serves the shared dictionary.
type BreakdownService interface {
	List(ctx context.Context) (map[string]models.Breakdown, error)
	Save(ctx context.Context, user *models.User, b models.Breakdown) error
}

// ConfigService serves the operator-managed settings.
type ConfigService interface {
	ManagedServerURL(ctx context.Context) (string, error)
	SetManagedServerURL(ctx context.Context, url string) error
	APIKeys(ctx context.Context) ([]models.APIKey, error)
	SetAPIKey(ctx context.Context, k models.APIKey) error
}

// Server runs the HTTP API.
type Server struct {
	addr   string
	logger logging.Logger

	users      UserService
	progress   ProgressService
	breakdowns BreakdownService
	config     ConfigService

	server *http.Server
}

func NewServer(addr string, logger logging.Logger, users UserService, progress ProgressService, breakdowns BreakdownService, config ConfigService) *Server {
	return &Server{
		addr:       addr,
		logger:     logger.With("module", "http"),
		users:      users,
		progress:   progress,
		breakdowns: breakdowns,
		config:     config,
	}
}

// router builds the gin engine with all routes attached. Split out of Run so
// handler tests can drive it through httptest without a listener.
func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/ping", s.handlePing)

	// server-distributed records that must be readable before login
	r.GET("/api/admin/users", s.handleAdminUsers)
	r.GET("/api/sync/breakdowns", s.handleListBreakdowns)

	r.POST("/api/sync/login", s.handleLogin)
	r.POST("/api/sync/register", s.handleRegister)

	authed := r.Group("/", s.authRequired())
	{
		authed.POST("/api/sync/push", s.handlePush)
		authed.GET("/api/sync/pull", s.handlePull)
		authed.POST("/api/breakdowns", s.handleSaveBreakdown)
		authed.GET("/api/config", s.handleGetConfig)
		authed.GET("/api/admin/apikeys", s.handleListAPIKeys)

		admin := authed.Group("/", s.adminOnly())
		{
			admin.POST("/api/config", s.handleSetConfig)
			admin.POST("/api/admin/apikeys", s.handleSetAPIKey)
		}
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Handler:           s.router(),
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(listener)
	}()

	s.logger.Info(ctx, "http server started", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
