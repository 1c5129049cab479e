package progress

import (
	"context"

	"github.com/dmitrijs2005/cardsync/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, userID, cardID string) (*models.ProgressEntry, error)
	Upsert(ctx context.Context, userID, cardID string, e models.ProgressEntry) error
	GetAll(ctx context.Context, userID string) (map[string]models.ProgressEntry, error)
}
