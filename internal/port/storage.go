package port

import "context"

// KeyValueStore is the persistence facility behind history and preferences:
// named slots holding opaque string values.
type KeyValueStore interface {
	// Get returns domain.ErrSlotNotFound when the slot has never been written.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
