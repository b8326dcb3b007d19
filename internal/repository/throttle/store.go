package throttle

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// store is the consumer interface for throttle counters (ISP).
type store interface {
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	Del(ctx context.Context, key string) error
}

// Store counts code emails per address in fixed windows (INCRBY + EXPIRE NX).
type Store struct {
	store     store
	maxSends  int64
	window    time.Duration
	keyPrefix string
}

// New creates a throttle allowing maxSends per window for each address.
func New(s store, maxSends int, window time.Duration) *Store {
	return &Store{
		store:     s,
		maxSends:  int64(maxSends),
		window:    window,
		keyPrefix: "odhiyaty:throttle:",
	}
}

// Allow records one send for email under scope and reports whether it is
// within the limit.
func (s *Store) Allow(ctx context.Context, scope, email string) (bool, error) {
	key := s.key(scope, email)

	n, err := s.store.IncrBy(ctx, key, 1)
	if err != nil {
		return false, fmt.Errorf("throttle INCRBY %s: %w", key, err)
	}

	// Set TTL only if the key has no expiry yet (NX, window is not extended).
	if err := s.store.Expire(ctx, key, s.window, true); err != nil {
		return false, fmt.Errorf("throttle EXPIRE %s: %w", key, err)
	}

	return n <= s.maxSends, nil
}

// Reset clears the counter for email under scope.
func (s *Store) Reset(ctx context.Context, scope, email string) error {
	key := s.key(scope, email)
	if err := s.store.Del(ctx, key); err != nil {
		return fmt.Errorf("throttle DEL %s: %w", key, err)
	}
	return nil
}

func (s *Store) key(scope, email string) string {
	return s.keyPrefix + scope + ":" + strings.ToLower(strings.TrimSpace(email))
}
