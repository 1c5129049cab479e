package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/cardsync/internal/client/api"
	"github.com/dmitrijs2005/cardsync/internal/client/models"
	"github.com/dmitrijs2005/cardsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cardsync/internal/dbx"
	"github.com/dmitrijs2005/cardsync/internal/logging"
)

// Metadata keys used by the auth service.
const (
	metaToken        = "token"
	metaUserID       = "user_id"
	metaUsername     = "username"
	metaIsAdmin      = "is_admin"
	metaServerURL    = "server_url"
	metaServerConfig = "server_config"
	metaLastSyncTime = "last_sync_time"
)

// bootstrapAdmins is the compiled-in fallback allow-list used when the
// server's admin list cannot be fetched at login. Subsequent logins refresh
// it from the server's source of truth.
var bootstrapAdmins = []string{"admin"}

// AuthService manages the bearer session: login, logout, and the read-only
// accessor every sync call receives its session from. The session is kept in
// the local metadata store, never in ambient globals.
type AuthService struct {
	client api.Client
	db     *sql.DB
	logger logging.Logger
}

func NewAuthService(client api.Client, db *sql.DB, logger logging.Logger) *AuthService {
	return &AuthService{client: client, db: db, logger: logger.With("module", "auth")}
}

func (a *AuthService) metaRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Login authenticates against the server at serverURL, persists the session,
// and refreshes the server-distributed records (admin allow-list, server
// config). Distribution failures are logged, not fatal: the session is still
// usable for sync.
func (a *AuthService) Login(ctx context.Context, username, password, serverURL string) (*models.AuthSession, error) {
	token, userID, userName, err := a.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	admins, err := a.client.PullAdminUsers(ctx)
	if err != nil {
		a.logger.Warn(ctx, "admin list unavailable, using bootstrap fallback", "error", err.Error())
		admins = bootstrapAdmins
	}

	session := &models.AuthSession{
		Token:     token,
		UserID:    userID,
		Username:  userName,
		IsAdmin:   slices.Contains(admins, userName),
		ServerURL: serverURL,
	}

	if err := a.saveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	if cfg, err := a.client.PullServerConfig(ctx, token); err != nil {
		a.logger.Warn(ctx, "server config unavailable", "error", err.Error())
	} else if err := a.cacheServerConfig(ctx, cfg); err != nil {
		a.logger.Warn(ctx, "failed to cache server config", "error", err.Error())
	}

	a.logger.Info(ctx, "logged in", "username", userName, "admin", session.IsAdmin)
	return session, nil
}

// Register creates a new account on the server. It does not log in.
func (a *AuthService) Register(ctx context.Context, username, password string) error {
	return a.client.Register(ctx, username, password)
}

func (a *AuthService) saveSession(ctx context.Context, s *models.AuthSession) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.metaRepo(tx)
		admin := "0"
		if s.IsAdmin {
			admin = "1"
		}
		pairs := map[string]string{
			metaToken:     s.Token,
			metaUserID:    s.UserID,
			metaUsername:  s.Username,
			metaIsAdmin:   admin,
			metaServerURL: s.ServerURL,
		}
		for k, v := range pairs {
			if err := repo.Set(ctx, k, []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *AuthService) cacheServerConfig(ctx context.Context, cfg *models.ServerConfig) error {
	b, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return a.metaRepo(a.db).Set(ctx, metaServerConfig, b)
}

// CachedServerConfig returns the server config pulled at last login, or
// common.ErrorNotFound semantics via a nil result when none is cached.
func (a *AuthService) CachedServerConfig(ctx context.Context) (*models.ServerConfig, error) {
	b, err := a.metaRepo(a.db).Get(ctx, metaServerConfig)
	if err != nil || b == nil {
		return nil, err
	}
	var cfg models.ServerConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PushServerConfig uploads a new server-distributed config. The server
// enforces the admin check; the session gate here only avoids a pointless
// round-trip. The local cache is refreshed on success so `config` shows
// what was just pushed.
func (a *AuthService) PushServerConfig(ctx context.Context, cfg models.ServerConfig) error {
	session, err := a.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return api.ErrUnauthenticated
	}

	if err := a.client.PushServerConfig(ctx, session.Token, cfg); err != nil {
		return err
	}
	return a.cacheServerConfig(ctx, &cfg)
}

// CurrentSession is the read-only accessor. Returns nil when the device is
// logged out.
func (a *AuthService) CurrentSession(ctx context.Context) (*models.AuthSession, error) {
	repo := a.metaRepo(a.db)

	token, err := repo.Get(ctx, metaToken)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 {
		return nil, nil
	}

	s := &models.AuthSession{Token: string(token)}
	if v, err := repo.Get(ctx, metaUserID); err == nil {
		s.UserID = string(v)
	}
	if v, err := repo.Get(ctx, metaUsername); err == nil {
		s.Username = string(v)
	}
	if v, err := repo.Get(ctx, metaIsAdmin); err == nil {
		s.IsAdmin = string(v) == "1"
	}
	if v, err := repo.Get(ctx, metaServerURL); err == nil {
		s.ServerURL = string(v)
	}
	return s, nil
}

// Logout clears the session and any cached server-derived config, forcing a
// re-pull on the next login. The local progress ledger is left alone.
func (a *AuthService) Logout(ctx context.Context) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.metaRepo(tx)
		for _, k := range []string{metaToken, metaUserID, metaUsername, metaIsAdmin, metaServerConfig} {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
}

// InvalidateSession drops the stored token after the server reported it
// invalid. The caller decides whether to prompt for re-login.
func (a *AuthService) InvalidateSession(ctx context.Context) error {
	a.logger.Warn(ctx, "session invalidated, re-login required")
	return a.metaRepo(a.db).Delete(ctx, metaToken)
}
