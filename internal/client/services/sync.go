package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/cardsync/internal/client/api"
	"github.com/dmitrijs2005/cardsync/internal/client/models"
	"github.com/dmitrijs2005/cardsync/internal/client/repositories/progress"
	"github.com/dmitrijs2005/cardsync/internal/common"
	"github.com/dmitrijs2005/cardsync/internal/logging"
)

// MergeResult is the outcome of combining a pulled ledger with the local one.
type MergeResult struct {
	// Ledger is the full merged view, one winner per card.
	Ledger models.ProgressLedger

	// FromServer lists the card ids whose winning entry came from the
	// server. Applying these locally also clears their pending flags: the
	// server already reflects at least this state.
	FromServer []string
}

// Merge applies last-write-wins per card: the entry with the larger
// updatedAt survives, ties favor the server (the durable record). Cards
// present only locally are never discarded; if they were pending they stay
// pending and get pushed after the pull.
//
// Merge is a pure function of its inputs so the conflict rule can be tested
// without storage or transport.
func Merge(local, remote models.ProgressLedger) MergeResult {
	res := MergeResult{Ledger: make(models.ProgressLedger, len(local)+len(remote))}

	for id, le := range local {
		res.Ledger[id] = le
	}
	for id, re := range remote {
		le, ok := local[id]
		if ok && le.Newer(re) {
			continue
		}
		res.Ledger[id] = re
		res.FromServer = append(res.FromServer, id)
	}
	return res
}

// SyncService pushes and pulls the progress ledger against the server.
// Push and pull are atomic primitives with explicit results; retry policy
// lives in the Orchestrator, never here. At most one push/pull is in flight
// per service: a second caller queues behind the mutex.
type SyncService struct {
	client api.Client
	repo   progress.Repository
	logger logging.Logger

	mu sync.Mutex
}

func NewSyncService(client api.Client, repo progress.Repository, logger logging.Logger) *SyncService {
	return &SyncService{client: client, repo: repo, logger: logger.With("module", "sync")}
}

// Push sends the pending entries to the server. Accepted ids are cleared
// from the pending set; rejected ids carry the server's newer entry, which
// is adopted locally through the same merge rule. A push with an invalid
// session fails fast without touching the network.
func (s *SyncService) Push(ctx context.Context, session *models.AuthSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.push(ctx, session)
}

func (s *SyncService) push(ctx context.Context, session *models.AuthSession) error {
	if !session.Valid() {
		return api.ErrUnauthenticated
	}

	pending, err := s.repo.GetPending(ctx)
	if err != nil {
		return fmt.Errorf("reading pending set: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	ack, err := s.client.PushProgress(ctx, session.Token, pending)
	if err != nil {
		// pending set stays untouched so a later retry can succeed
		return err
	}

	for _, id := range ack.Accepted {
		sent, ok := pending[id]
		if !ok {
			continue
		}
		if err := s.repo.ClearPending(ctx, id, sent.UpdatedAt); err != nil {
			return fmt.Errorf("clearing pending[%s]: %w", id, err)
		}
	}

	for id, serverEntry := range ack.Rejected {
		stored, err := s.repo.Get(ctx, id)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("reading entry[%s]: %w", id, err)
		}
		// compare against the stored row, not the sent snapshot: a mutation
		// racing the push may have outrun the server's copy, and then it
		// must stay pending for the next round instead of being clobbered
		if stored != nil && stored.Newer(serverEntry) {
			continue
		}
		if err := s.repo.Upsert(ctx, id, serverEntry, false); err != nil {
			return fmt.Errorf("adopting server entry[%s]: %w", id, err)
		}
		s.logger.Info(ctx, "push rejected, server entry adopted", "card", id)
	}

	s.logger.Info(ctx, "push complete", "sent", len(pending), "accepted", len(ack.Accepted), "rejected", len(ack.Rejected))
	return nil
}

// Pull retrieves the server ledger and merges it into the local one.
// Entries the server wins are written back without the pending mark; local
// wins and never-synced pending cards are left alone for the next push.
func (s *SyncService) Pull(ctx context.Context, session *models.AuthSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pull(ctx, session)
}

func (s *SyncService) pull(ctx context.Context, session *models.AuthSession) error {
	if !session.Valid() {
		return api.ErrUnauthenticated
	}

	remote, err := s.client.PullProgress(ctx, session.Token)
	if err != nil {
		return err
	}

	local, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("reading local ledger: %w", err)
	}

	res := Merge(local, remote)
	for _, id := range res.FromServer {
		if err := s.repo.Upsert(ctx, id, res.Ledger[id], false); err != nil {
			return fmt.Errorf("applying merged entry[%s]: %w", id, err)
		}
	}

	s.logger.Info(ctx, "pull complete", "remote", len(remote), "applied", len(res.FromServer))
	return nil
}

// Resync flags the entire local ledger pending and then runs the full
// pull-merge-push round-trip. This is the conservative fallback for when
// the pending flags cannot be trusted: it trades bandwidth for correctness,
// and the per-card timestamp rule keeps the re-sent entries from clobbering
// anything newer on the server.
func (s *SyncService) Resync(ctx context.Context, session *models.AuthSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !session.Valid() {
		return api.ErrUnauthenticated
	}

	if err := s.repo.MarkAllPending(ctx); err != nil {
		return fmt.Errorf("marking ledger pending: %w", err)
	}

	if err := s.pull(ctx, session); err != nil {
		return err
	}
	return s.push(ctx, session)
}

// SyncAll runs pull, applies the merge, then pushes whatever remains
// pending, strictly in that order, so push payloads reflect post-merge
// timestamps and unsynced offline progress survives the first pull.
func (s *SyncService) SyncAll(ctx context.Context, session *models.AuthSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.pull(ctx, session); err != nil {
		return err
	}
	return s.push(ctx, session)
}
