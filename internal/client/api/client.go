// Package api defines the transport client the sync services talk through,
// plus its HTTP JSON implementation. The interface keeps the services
// testable against fakes with call counters.
package api

import (
	"context"

	"github.com/dmitrijs2005/cardsync/internal/client/models"
)

// PushAck is the per-card outcome of a push. Accepted ids may be cleared
// from the pending set; rejected ids carry the server's current entry so the
// caller can fold them through the merge rule.
type PushAck struct {
	Accepted []string
	Rejected models.ProgressLedger
}

// Client is the wire contract against the sync server. Every authenticated
// method takes the token explicitly and must fail fast with
// ErrUnauthenticated when it is blank, before any network call is issued.
type Client interface {
	Login(ctx context.Context, username, password string) (token, userID, userName string, err error)
	Register(ctx context.Context, username, password string) error
	Ping(ctx context.Context) error

	PushProgress(ctx context.Context, token string, entries models.ProgressLedger) (*PushAck, error)
	PullProgress(ctx context.Context, token string) (models.ProgressLedger, error)

	PullBreakdowns(ctx context.Context) (map[string]models.TermBreakdown, error)
	SaveBreakdown(ctx context.Context, token string, b models.TermBreakdown) error

	PullServerConfig(ctx context.Context, token string) (*models.ServerConfig, error)
	PushServerConfig(ctx context.Context, token string, cfg models.ServerConfig) error
	PullAdminUsers(ctx context.Context) ([]string, error)
}
