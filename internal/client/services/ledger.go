// Package services contains the client application services: the progress
// ledger, the sync engine, authentication, breakdown distribution, and the
// orchestration policy that decides when syncs run.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cardsync/internal/client/models"
	"github.com/dmitrijs2005/cardsync/internal/client/repositories/progress"
	"github.com/dmitrijs2005/cardsync/internal/common"
)

// LedgerService owns the device-local progress ledger. All status changes go
// through Set, which stamps a strictly increasing updatedAt and marks the
// card pending; writes applied from a pull go through ApplyRemote instead so
// they do not re-mark themselves.
type LedgerService struct {
	repo progress.Repository

	// now is a test seam; defaults to wall-clock unix seconds.
	now func() int64
}

func NewLedgerService(repo progress.Repository) *LedgerService {
	return &LedgerService{repo: repo, now: func() int64 { return time.Now().Unix() }}
}

// Get returns the entry for a card. Absent cards read as the implicit
// {active, 0} default.
func (s *LedgerService) Get(ctx context.Context, cardID string) (models.ProgressEntry, error) {
	if cardID == "" {
		return models.DefaultEntry(), nil
	}
	e, err := s.repo.Get(ctx, cardID)
	if err != nil {
		if err == common.ErrorNotFound {
			return models.DefaultEntry(), nil
		}
		return models.DefaultEntry(), err
	}
	return *e, nil
}

// Set atomically replaces the card's entry with the given status and a fresh
// timestamp, and marks the card pending. updatedAt strictly increases even
// when two mutations land within the same second. An empty card id is a
// no-op, not a failure.
func (s *LedgerService) Set(ctx context.Context, cardID string, status models.CardStatus) (models.ProgressEntry, error) {
	if cardID == "" {
		return models.DefaultEntry(), nil
	}
	if _, err := models.ParseCardStatus(string(status)); err != nil {
		return models.DefaultEntry(), err
	}

	prev, err := s.Get(ctx, cardID)
	if err != nil {
		return models.DefaultEntry(), err
	}

	ts := s.now()
	if ts <= prev.UpdatedAt {
		ts = prev.UpdatedAt + 1
	}

	e := models.ProgressEntry{Status: status, UpdatedAt: ts}
	if err := s.repo.Upsert(ctx, cardID, e, true); err != nil {
		return models.DefaultEntry(), fmt.Errorf("saving progress: %w", err)
	}
	return e, nil
}

// ApplyRemote writes an entry that arrived from the server. The pending flag
// is dropped: the server already reflects this state.
func (s *LedgerService) ApplyRemote(ctx context.Context, cardID string, e models.ProgressEntry) error {
	return s.repo.Upsert(ctx, cardID, e, false)
}

// Snapshot exports the full local ledger.
func (s *LedgerService) Snapshot(ctx context.Context) (models.ProgressLedger, error) {
	return s.repo.GetAll(ctx)
}

// Pending returns the entries changed since the last confirmed sync.
func (s *LedgerService) Pending(ctx context.Context) (models.ProgressLedger, error) {
	return s.repo.GetPending(ctx)
}
