package limiter

import (
	"context"
	"time"
)

// Config defines the token bucket policy for one guarded operation.
//
//   - Capacity: maximum tokens the bucket can hold (also the maximum
//     immediate burst)
//   - RefillRate: tokens earned per RefillPeriod
//   - RefillPeriod: the time window RefillRate is measured over
//
// All three must be positive. A Config is validated once at
// construction time by New and is never re-checked on the hot path.
type Config struct {
	Capacity     float64
	RefillRate   float64
	RefillPeriod time.Duration
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{"capacity must be positive"}
	}
	if c.RefillRate <= 0 {
		return &ConfigError{"refill rate must be positive"}
	}
	if c.RefillPeriod <= 0 {
		return &ConfigError{"refill period must be positive"}
	}
	return nil
}

// fullRefill returns how long an empty bucket takes to refill
// completely. Any record TTL below this bound would reset an idle
// bucket early, so stores clamp their expiration to at least this.
func (c Config) fullRefill() time.Duration {
	return time.Duration(c.Capacity / c.RefillRate * float64(c.RefillPeriod))
}

// State is the persisted per-key bucket state. It is owned exclusively
// by a Store and only ever mutated inside AtomicConsume or SetState.
type State struct {
	Tokens     float64
	LastRefill time.Time
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	// Allowed reports whether the request is permitted.
	Allowed bool

	// Remaining is the token balance after the decision is applied.
	Remaining float64

	// RetryAfter is 0 when allowed; when denied it is the time until
	// one whole token will have accrued, computed from the current
	// fractional balance as (1 - tokens) * period / rate.
	RetryAfter time.Duration
}

// Info is a read-only snapshot of a bucket, for debugging and
// monitoring. Tracked is false when the key has never been observed;
// in that case Tokens reports full capacity and LastRefill is zero.
type Info struct {
	Tokens       float64
	Capacity     float64
	RefillRate   float64
	RefillPeriod time.Duration
	LastRefill   time.Time
	Tracked      bool
}

// Store holds bucket state and exposes an atomic consume-or-reject
// primitive. Implementations must guarantee that the whole
// read-refill-decide-write sequence in AtomicConsume is indivisible
// with respect to all concurrent callers for the same key, and that
// identical (state, config, now) inputs produce identical decisions
// across implementations.
type Store interface {
	// AtomicConsume refills the bucket for key up to now, consumes one
	// token if at least one is available, persists the resulting state
	// and reports it together with the admission outcome. A missing key
	// is initialized at full capacity.
	AtomicConsume(ctx context.Context, key string, cfg Config, now time.Time) (State, bool, error)

	// GetState returns the stored state for key without mutating it.
	// The second result is false when the key has never been observed.
	GetState(ctx context.Context, key string) (State, bool, error)

	// SetState overwrites the stored state for key. It exists for
	// introspection and tests and is not atomic with GetState.
	SetState(ctx context.Context, key string, st State, cfg Config) error

	// Close releases resources held by the store.
	Close() error
}
