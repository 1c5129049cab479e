// Package breakdowns caches the server-authoritative term-breakdown
// dictionary on the device. The cache is replaced wholesale on each pull.
package breakdowns

import (
	"context"

	"github.com/dmitrijs2005/cardsync/internal/client/models"
)

type Repository interface {
	// Get returns the cached breakdown for a card, or common.ErrorNotFound.
	Get(ctx context.Context, cardID string) (*models.TermBreakdown, error)

	// GetAll returns the full cached dictionary keyed by card id.
	GetAll(ctx context.Context) (map[string]models.TermBreakdown, error)

	// ReplaceAll atomically swaps the cache for the given dictionary.
	ReplaceAll(ctx context.Context, all map[string]models.TermBreakdown) error
}
