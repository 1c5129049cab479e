package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/cardsync/internal/client/api"
	"github.com/dmitrijs2005/cardsync/internal/client/models"
	"github.com/dmitrijs2005/cardsync/internal/logging"
	"github.com/stretchr/testify/require"

	"log/slog"

	_ "modernc.org/sqlite"
)

// fakeClient implements api.Client in memory, with call counters so tests
// can assert that certain paths never touch the transport.
type fakeClient struct {
	api.Client

	LoginToken  string
	LoginUser   string
	LoginErr    error
	RegisterErr error

	PushAck   *api.PushAck
	PushErr   error
	PushCalls int
	PushSent  []models.ProgressLedger
	OnPush    func()

	PullLedger models.ProgressLedger
	PullErr    error
	PullCalls  int

	Breakdowns    map[string]models.TermBreakdown
	BreakdownsErr error

	SaveErr   error
	SaveCalls int

	Admins    []string
	AdminsErr error

	ServerConfig    *models.ServerConfig
	ServerConfigErr error

	PushedConfigs []models.ServerConfig
	PushConfigErr error
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (string, string, string, error) {
	if f.LoginErr != nil {
		return "", "", "", f.LoginErr
	}
	return f.LoginToken, "u-" + username, username, nil
}

func (f *fakeClient) Register(ctx context.Context, username, password string) error {
	return f.RegisterErr
}

func (f *fakeClient) PushProgress(ctx context.Context, token string, entries models.ProgressLedger) (*api.PushAck, error) {
	f.PushCalls++
	sent := make(models.ProgressLedger, len(entries))
	for k, v := range entries {
		sent[k] = v
	}
	f.PushSent = append(f.PushSent, sent)
	if f.OnPush != nil {
		f.OnPush()
	}
	if f.PushErr != nil {
		return nil, f.PushErr
	}
	if f.PushAck != nil {
		return f.PushAck, nil
	}
	// default: accept everything
	ack := &api.PushAck{Rejected: models.ProgressLedger{}}
	for id := range entries {
		ack.Accepted = append(ack.Accepted, id)
	}
	return ack, nil
}

func (f *fakeClient) PullProgress(ctx context.Context, token string) (models.ProgressLedger, error) {
	f.PullCalls++
	if f.PullErr != nil {
		return nil, f.PullErr
	}
	if f.PullLedger == nil {
		return models.ProgressLedger{}, nil
	}
	return f.PullLedger, nil
}

func (f *fakeClient) PullBreakdowns(ctx context.Context) (map[string]models.TermBreakdown, error) {
	if f.BreakdownsErr != nil {
		return nil, f.BreakdownsErr
	}
	if f.Breakdowns == nil {
		return map[string]models.TermBreakdown{}, nil
	}
	return f.Breakdowns, nil
}

func (f *fakeClient) SaveBreakdown(ctx context.Context, token string, b models.TermBreakdown) error {
	f.SaveCalls++
	return f.SaveErr
}

func (f *fakeClient) PullAdminUsers(ctx context.Context) ([]string, error) {
	if f.AdminsErr != nil {
		return nil, f.AdminsErr
	}
	return f.Admins, nil
}

func (f *fakeClient) PullServerConfig(ctx context.Context, token string) (*models.ServerConfig, error) {
	if f.ServerConfigErr != nil {
		return nil, f.ServerConfigErr
	}
	if f.ServerConfig == nil {
		return &models.ServerConfig{}, nil
	}
	return f.ServerConfig, nil
}

func (f *fakeClient) PushServerConfig(ctx context.Context, token string, cfg models.ServerConfig) error {
	if f.PushConfigErr != nil {
		return f.PushConfigErr
	}
	f.PushedConfigs = append(f.PushedConfigs, cfg)
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.DiscardHandler))
}

func testSession() *models.AuthSession {
	return &models.AuthSession{Token: "tok", UserID: "u1", Username: "alice"}
}

func setupServiceDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS progress (
  card_id    TEXT PRIMARY KEY,
  status     TEXT NOT NULL,
  updated_at INTEGER NOT NULL DEFAULT 0,
  pending    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS breakdowns (
  card_id    TEXT PRIMARY KEY,
  term       TEXT NOT NULL,
  parts      TEXT NOT NULL DEFAULT '[]',
  literal    TEXT NOT NULL DEFAULT '',
  notes      TEXT NOT NULL DEFAULT '',
  updated_at INTEGER NOT NULL DEFAULT 0,
  updated_by TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);

DELETE FROM progress;
DELETE FROM breakdowns;
DELETE FROM metadata;
`)
	require.NoError(t, err)
	return db
}
