// Package metadata is a small key-value store for device-local bookkeeping:
// the persisted auth session, the cached server config and admin allow-list,
// and the last-successful-sync timestamp.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns the value for key, or nil if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
