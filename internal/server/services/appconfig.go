package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/cardsync/internal/common"
	"github.com/dmitrijs2005/cardsync/internal/server/models"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/repomanager"
)

// managedServerURLKey is the app_config row holding the URL every client
// should point at. Changing it re-targets the whole fleet at next login.
const managedServerURLKey = "managed_server_url"

// ConfigService distributes operator-managed settings: the managed server
// URL and the shared API keys. Reads are open to any account; writes are
// gated to administrators by the HTTP layer.
type ConfigService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewConfigService(db *sql.DB, m repomanager.RepositoryManager) *ConfigService {
	return &ConfigService{db: db, repomanager: m}
}

// ManagedServerURL returns the configured URL, or "" when unset.
func (s *ConfigService) ManagedServerURL(ctx context.Context) (string, error) {
	v, err := s.repomanager.AppConfig(s.db).GetValue(ctx, managedServerURLKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

// SetManagedServerURL replaces the configured URL.
func (s *ConfigService) SetManagedServerURL(ctx context.Context, url string) error {
	return s.repomanager.AppConfig(s.db).SetValue(ctx, managedServerURLKey, url)
}

// APIKeys returns the shared credentials.
func (s *ConfigService) APIKeys(ctx context.Context) ([]models.APIKey, error) {
	return s.repomanager.AppConfig(s.db).ListAPIKeys(ctx)
}

// SetAPIKey creates or replaces one shared credential.
func (s *ConfigService) SetAPIKey(ctx context.Context, k models.APIKey) error {
	return s.repomanager.AppConfig(s.db).UpsertAPIKey(ctx, k)
}
