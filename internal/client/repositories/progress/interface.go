// Package progress persists the device-local study ledger: one row per
// card with its status, the last-write timestamp, and a pending flag for
// entries changed since the last confirmed sync.
package progress

import (
	"context"

	"github.com/dmitrijs2005/cardsync/internal/client/models"
)

// Repository describes storage operations over the local progress ledger.
// Implementations are backed by a local SQLite database.
type Repository interface {
	// Get returns the entry for a card, or common.ErrorNotFound.
	Get(ctx context.Context, cardID string) (*models.ProgressEntry, error)

	// Upsert atomically replaces the entry for a card. The pending flag is
	// written as given: local mutations pass true, writes applied from a
	// pull pass false so they do not re-mark themselves dirty.
	Upsert(ctx context.Context, cardID string, e models.ProgressEntry, pending bool) error

	// GetAll returns the full ledger.
	GetAll(ctx context.Context) (models.ProgressLedger, error)

	// GetPending returns entries awaiting a confirmed push.
	GetPending(ctx context.Context) (models.ProgressLedger, error)

	// ClearPending drops the pending flag for a card, but only while its
	// stored timestamp is still <= upTo. A mutation racing a push keeps the
	// card dirty for the next round.
	ClearPending(ctx context.Context, cardID string, upTo int64) error

	// MarkAllPending flags the whole ledger dirty. Conservative fallback
	// used when no server baseline is known: trades bandwidth for
	// correctness.
	MarkAllPending(ctx context.Context) error
}
