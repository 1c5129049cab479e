package appconfig

import (
	"context"

	"github.com/dmitrijs2005/cardsync/internal/server/models"
)

type Repository interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
	ListAPIKeys(ctx context.Context) ([]models.APIKey, error)
	UpsertAPIKey(ctx context.Context, k models.APIKey) error
}
