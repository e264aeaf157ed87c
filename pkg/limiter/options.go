package limiter

import "time"

const (
	defaultKeyPrefix = "rate_limit:"
	defaultRecordTTL = 2 * time.Hour
	defaultTimeout   = 5 * time.Second
)

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix sets the namespace prepended to every bucket key, to
// avoid collisions with unrelated data in a shared Redis instance.
// Default "rate_limit:".
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithTTL sets the baseline expiration for bucket records. The
// effective expiration is never below the bucket's full-refill time,
// whatever this is set to. Default 2h.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithTimeout bounds every Redis round trip. On timeout the operation
// surfaces a *BackendError; the script may or may not have executed.
// Default 5s.
func WithTimeout(timeout time.Duration) RedisOption {
	return func(s *RedisStore) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithFailOpen makes the limiter admit requests when the store is
// unavailable, trading the budget guarantee for availability. The
// default is fail-closed: an outage must not silently admit unlimited
// traffic. Either way Allow also returns the *BackendError, so callers
// can always tell an outage from an ordinary denial.
func WithFailOpen() Option {
	return func(l *Limiter) {
		l.failOpen = true
	}
}

// WithClock replaces the wall clock used by Allow and Inspect. Tests
// use it to drive refill deterministically without sleeping.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithRecorder injects a metrics backend. The default recorder does
// nothing.
func WithRecorder(r MetricsRecorder) Option {
	return func(l *Limiter) {
		if r != nil {
			l.recorder = r
		}
	}
}
