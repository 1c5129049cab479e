package breakdowns

import (
	"context"

	"github.com/dmitrijs2005/cardsync/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, cardID string) (*models.Breakdown, error)
	GetAll(ctx context.Context) (map[string]models.Breakdown, error)
	Upsert(ctx context.Context, b *models.Breakdown) error
}
