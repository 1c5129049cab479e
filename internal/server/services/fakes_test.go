package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/cardsync/internal/common"
	"github.com/dmitrijs2005/cardsync/internal/dbx"
	"github.com/dmitrijs2005/cardsync/internal/server/models"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/appconfig"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/breakdowns"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/progress"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// In-memory repositories backing the service tests. The services only talk
// to Repository interfaces, so the *sql.DB handed to them serves purely as
// the transaction provider for dbx.WithTx.

type memUsers struct {
	byID       map[string]*models.User
	byUsername map[string]*models.User
	seq        int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*models.User{}, byUsername: map[string]*models.User{}}
}

func (m *memUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := m.byUsername[user.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u := *user
	if u.ID == "" {
		m.seq++
		u.ID = fmt.Sprintf("u-%d", m.seq)
	}
	u.CreatedAt = time.Now()
	m.byID[u.ID] = &u
	m.byUsername[u.Username] = &u
	return &u, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := m.byUsername[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (m *memUsers) ListAdminUsernames(ctx context.Context) ([]string, error) {
	var out []string
	for _, u := range m.byID {
		if u.IsAdmin {
			out = append(out, u.Username)
		}
	}
	return out, nil
}

type memProgress struct {
	entries map[string]map[string]models.ProgressEntry // userID -> cardID
	upserts int
}

func newMemProgress() *memProgress {
	return &memProgress{entries: map[string]map[string]models.ProgressEntry{}}
}

func (m *memProgress) Get(ctx context.Context, userID, cardID string) (*models.ProgressEntry, error) {
	e, ok := m.entries[userID][cardID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &e, nil
}

func (m *memProgress) Upsert(ctx context.Context, userID, cardID string, e models.ProgressEntry) error {
	if m.entries[userID] == nil {
		m.entries[userID] = map[string]models.ProgressEntry{}
	}
	m.entries[userID][cardID] = e
	m.upserts++
	return nil
}

func (m *memProgress) GetAll(ctx context.Context, userID string) (map[string]models.ProgressEntry, error) {
	out := make(map[string]models.ProgressEntry, len(m.entries[userID]))
	for id, e := range m.entries[userID] {
		out[id] = e
	}
	return out, nil
}

type memBreakdowns struct {
	entries map[string]models.Breakdown
}

func newMemBreakdowns() *memBreakdowns {
	return &memBreakdowns{entries: map[string]models.Breakdown{}}
}

func (m *memBreakdowns) Get(ctx context.Context, cardID string) (*models.Breakdown, error) {
	b, ok := m.entries[cardID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &b, nil
}

func (m *memBreakdowns) GetAll(ctx context.Context) (map[string]models.Breakdown, error) {
	out := make(map[string]models.Breakdown, len(m.entries))
	for id, b := range m.entries {
		out[id] = b
	}
	return out, nil
}

func (m *memBreakdowns) Upsert(ctx context.Context, b *models.Breakdown) error {
	m.entries[b.CardID] = *b
	return nil
}

type memAppConfig struct {
	values map[string]string
	keys   map[string]models.APIKey
}

func newMemAppConfig() *memAppConfig {
	return &memAppConfig{values: map[string]string{}, keys: map[string]models.APIKey{}}
}

func (m *memAppConfig) GetValue(ctx context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", common.ErrorNotFound
	}
	return v, nil
}

func (m *memAppConfig) SetValue(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memAppConfig) ListAPIKeys(ctx context.Context) ([]models.APIKey, error) {
	out := make([]models.APIKey, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, k)
	}
	return out, nil
}

func (m *memAppConfig) UpsertAPIKey(ctx context.Context, k models.APIKey) error {
	m.keys[k.Name] = k
	return nil
}

type fakeManager struct {
	users      *memUsers
	progress   *memProgress
	breakdowns *memBreakdowns
	appconfig  *memAppConfig
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		users:      newMemUsers(),
		progress:   newMemProgress(),
		breakdowns: newMemBreakdowns(),
		appconfig:  newMemAppConfig(),
	}
}

func (f *fakeManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (f *fakeManager) Users(db dbx.DBTX) users.Repository           { return f.users }
func (f *fakeManager) Progress(db dbx.DBTX) progress.Repository     { return f.progress }
func (f *fakeManager) Breakdowns(db dbx.DBTX) breakdowns.Repository { return f.breakdowns }
func (f *fakeManager) AppConfig(db dbx.DBTX) appconfig.Repository   { return f.appconfig }

// setupTxDB opens an in-memory sqlite handle used only to begin and commit
// transactions around the fake repositories.
func setupTxDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
