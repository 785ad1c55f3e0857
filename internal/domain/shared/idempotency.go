package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that were already handled
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Unmark forgets key so the work it guards can be retried
	Unmark(ctx context.Context, key string) error

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// JobLocker guards batch jobs so that only one runner executes a job at a time,
// across goroutines and across replicas sharing the same backend.
type JobLocker interface {
	// TryLock acquires the named lock for at most ttl.
	// It returns a release func when acquired, or ok=false when another holder has it.
	TryLock(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}
