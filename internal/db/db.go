// Package db defines the key-value store contract used for short-lived counters.
// Documents live in the firestore package; this store only backs throttling.
package db

import (
	"context"
	"time"
)

// Store is the key-value facade. Consumers depend on the narrow sub-interfaces.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides the counter operations.
type KVStore interface {
	// IncrBy increments the key and returns the new value.
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	Del(ctx context.Context, key string) error
}
