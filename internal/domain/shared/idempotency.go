package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers submission keys for a limited time so a repeated
// submission of the same mutation can be rejected while the first is in flight
// or shortly after it completed.
type IdempotencyStore interface {
	// MarkProcessed marks a key with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key is currently marked
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets a key so the same submission can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// DefaultSubmissionTTL is how long a submission key blocks repeats when unset
const DefaultSubmissionTTL = 10 * time.Minute
