package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which client idempotency keys already produced
// a print job, so a retried generate request returns the original job.
type IdempotencyStore interface {
	// Reserve binds key to value if the key is free.
	// Returns ("", true, nil) when the key was newly reserved, or the
	// previously stored value and false when it was already taken.
	Reserve(ctx context.Context, key, value string, ttl time.Duration) (existing string, reserved bool, err error)

	// Release drops a reservation, used when generation fails before a job exists
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a key stays bound to its job
	// Default: 24 hours
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	// Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
