package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/cardsync/internal/common"
	"github.com/dmitrijs2005/cardsync/internal/dbx"
	"github.com/dmitrijs2005/cardsync/internal/server/models"
	"github.com/dmitrijs2005/cardsync/internal/server/repositories/repomanager"
)

// PushResult reports the per-card outcome of a push: accepted ids, and for
// each rejection the entry the server kept, so the device can adopt it.
type PushResult struct {
	Accepted []string
	Rejected map[string]models.ProgressEntry
}

// ProgressService owns the durable per-user progress ledgers. The write rule
// is last-write-wins per card: an incoming entry is accepted only when its
// updatedAt is strictly greater than the stored one, so ties keep the stored
// record and a replayed push is harmless.
type ProgressService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProgressService(db *sql.DB, m repomanager.RepositoryManager) *ProgressService {
	return &ProgressService{db: db, repomanager: m}
}

// Push applies a batch of entries for one user inside a single transaction.
// An entry with an unknown status fails the whole batch with
// common.ErrorInvalidStatus before anything is written.
func (s *ProgressService) Push(ctx context.Context, userID string, entries map[string]models.ProgressEntry) (*PushResult, error) {
	for cardID, e := range entries {
		if !models.ValidStatus(e.Status) {
			return nil, fmt.Errorf("card %s: %w", cardID, common.ErrorInvalidStatus)
		}
	}

	result := &PushResult{Rejected: make(map[string]models.ProgressEntry)}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Progress(tx)

		for cardID, incoming := range entries {
			stored, err := repo.Get(ctx, userID, cardID)
			if err != nil && !errors.Is(err, common.ErrorNotFound) {
				return err
			}

			if stored != nil && incoming.UpdatedAt <= stored.UpdatedAt {
				result.Rejected[cardID] = *stored
				continue
			}

			if err := repo.Upsert(ctx, userID, cardID, incoming); err != nil {
				return err
			}
			result.Accepted = append(result.Accepted, cardID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(result.Accepted)
	return result, nil
}

// Pull returns the user's full ledger.
func (s *ProgressService) Pull(ctx context.Context, userID string) (map[string]models.ProgressEntry, error) {
	return s.repomanager.Progress(s.db).GetAll(ctx, userID)
}
