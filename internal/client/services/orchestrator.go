package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/cardsync/internal/client/api"
	"github.com/dmitrijs2005/cardsync/internal/client/models"
	"github.com/dmitrijs2005/cardsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cardsync/internal/logging"
)

// sessionInvalidator destroys the locally stored session after the server
// reported its token no longer valid. *AuthService satisfies it.
type sessionInvalidator interface {
	InvalidateSession(ctx context.Context) error
}

// Orchestrator decides when the sync engine runs automatically. It owns the
// policy, not the mechanics: the SyncService stays a pure function of
// (session, ledger) and the Orchestrator layers triggers, serialization, and
// bookkeeping on top.
//
// Triggers:
//   - first login on a device (last-successful-sync-time unset)
//   - login with auto-pull enabled
//   - status change with auto-push enabled
type Orchestrator struct {
	sync       *SyncService
	breakdowns *BreakdownService
	auth       sessionInvalidator
	meta       metadata.Repository
	logger     logging.Logger

	AutoPull bool
	AutoPush bool

	// single in-flight push; a mutation during an in-flight push queues a
	// re-push instead of being dropped
	mu       sync.Mutex
	inFlight bool
	queued   bool

	// now is a test seam
	now func() time.Time
}

func NewOrchestrator(sync *SyncService, breakdowns *BreakdownService, auth sessionInvalidator, meta metadata.Repository, autoPull, autoPush bool, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		sync:       sync,
		breakdowns: breakdowns,
		auth:       auth,
		meta:       meta,
		AutoPull:   autoPull,
		AutoPush:   autoPush,
		logger:     logger.With("module", "orchestrator"),
		now:        time.Now,
	}
}

// HandleLogin runs the login-time policy: on a first login or when auto-pull
// is enabled, pull and merge, then push whatever remains pending, strictly
// in that order, so offline progress made before the very first login is not
// lost to the pull. The shared breakdown dictionary is refreshed best-effort.
// Sync failures are reported and leave the pending set untouched; only the
// server rejecting the token destroys the session.
func (o *Orchestrator) HandleLogin(ctx context.Context, session *models.AuthSession) error {
	first, err := o.firstLogin(ctx)
	if err != nil {
		return err
	}

	if first || o.AutoPull {
		if err := o.sync.SyncAll(ctx, session); err != nil {
			o.logger.Warn(ctx, "login sync failed", "error", err.Error())
			o.dropInvalidSession(ctx, err)
			return err
		}
		if err := o.setLastSyncTime(ctx); err != nil {
			return err
		}
	}

	if err := o.breakdowns.PullAll(ctx); err != nil {
		o.logger.Warn(ctx, "breakdown refresh failed", "error", err.Error())
	}
	return nil
}

// HandleStatusChange runs the auto-push policy after a local mutation.
// Pushes are serialized: if one is already in flight the request is queued
// and replayed once the current push finishes, so a racing mutation is never
// dropped and two network responses can never cross.
func (o *Orchestrator) HandleStatusChange(ctx context.Context, session *models.AuthSession) error {
	if !o.AutoPush {
		return nil
	}

	o.mu.Lock()
	if o.inFlight {
		o.queued = true
		o.mu.Unlock()
		return nil
	}
	o.inFlight = true
	o.mu.Unlock()

	var lastErr error
	for {
		if err := o.sync.Push(ctx, session); err != nil {
			o.logger.Warn(ctx, "auto-push failed", "error", err.Error())
			o.dropInvalidSession(ctx, err)
			lastErr = err
		} else {
			lastErr = nil
			if err := o.setLastSyncTime(ctx); err != nil {
				lastErr = err
			}
		}

		o.mu.Lock()
		if o.queued {
			o.queued = false
			o.mu.Unlock()
			continue
		}
		o.inFlight = false
		o.mu.Unlock()
		return lastErr
	}
}

// ManualSync is the user-initiated full round-trip.
func (o *Orchestrator) ManualSync(ctx context.Context, session *models.AuthSession) error {
	if err := o.sync.SyncAll(ctx, session); err != nil {
		o.dropInvalidSession(ctx, err)
		return err
	}
	return o.setLastSyncTime(ctx)
}

// ForceResync marks the whole local ledger dirty and runs a full
// round-trip. Recovery path for when the pending flags cannot be trusted,
// e.g. after restoring the local database from a backup; re-sending
// everything is safe because the server rejects stale timestamps per card.
func (o *Orchestrator) ForceResync(ctx context.Context, session *models.AuthSession) error {
	if err := o.sync.Resync(ctx, session); err != nil {
		o.dropInvalidSession(ctx, err)
		return err
	}
	return o.setLastSyncTime(ctx)
}

// dropInvalidSession destroys the stored session when err is the server
// rejecting the token. The caller still surfaces err; the next command asks
// for a fresh login instead of retrying the stale token forever.
func (o *Orchestrator) dropInvalidSession(ctx context.Context, err error) {
	if !errors.Is(err, api.ErrUnauthenticated) {
		return
	}
	if derr := o.auth.InvalidateSession(ctx); derr != nil {
		o.logger.Error(ctx, "dropping invalid session failed", "error", derr.Error())
	}
}

// firstLogin reports whether this device has never completed a sync.
func (o *Orchestrator) firstLogin(ctx context.Context) (bool, error) {
	v, err := o.meta.Get(ctx, metaLastSyncTime)
	if err != nil {
		return false, err
	}
	return len(v) == 0, nil
}

func (o *Orchestrator) setLastSyncTime(ctx context.Context) error {
	ts := strconv.FormatInt(o.now().Unix(), 10)
	return o.meta.Set(ctx, metaLastSyncTime, []byte(ts))
}

// LastSyncTime returns the unix time of the last successful sync, or zero.
func (o *Orchestrator) LastSyncTime(ctx context.Context) (int64, error) {
	v, err := o.meta.Get(ctx, metaLastSyncTime)
	if err != nil || len(v) == 0 {
		return 0, err
	}
	ts, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		return 0, nil
	}
	return ts, nil
}
