package limiter

import (
	"context"
	"time"
)

// Limiter binds one bucket policy to one storage backend and decides
// admissions per key. It is safe for concurrent use; all shared state
// lives behind the Store's atomic consume primitive.
type Limiter struct {
	cfg      Config
	store    Store
	failOpen bool
	now      func() time.Time
	recorder MetricsRecorder
}

// New constructs a Limiter. The Config is validated here, once: an
// invalid Config surfaces as a *ConfigError at construction time and
// never at request time.
func New(cfg Config, store Store, opts ...Option) (*Limiter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, &ConfigError{"store is required"}
	}

	l := &Limiter{
		cfg:      cfg,
		store:    store,
		now:      time.Now,
		recorder: &NoOpMetricsRecorder{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// NewFromRate is New with the Config parsed from a compact rate
// expression like "100/hour".
func NewFromRate(rate string, store Store, opts ...Option) (*Limiter, error) {
	cfg, err := ParseRate(rate)
	if err != nil {
		return nil, err
	}
	return New(cfg, store, opts...)
}

// Allow checks whether one request for key should be admitted now.
// Each call has a fixed cost of 1 token.
//
// When the store fails, the returned error is a *BackendError and the
// Decision follows the configured fail policy (closed by default). The
// error is returned in both modes so an outage is always
// distinguishable from an ordinary denial.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	return l.AllowAt(ctx, key, l.now())
}

// AllowAt is Allow at a caller-supplied instant. Supplying the clock
// is what makes admission sequences reproducible in tests without real
// waits; production callers use Allow.
func (l *Limiter) AllowAt(ctx context.Context, key string, now time.Time) (Decision, error) {
	start := time.Now()
	st, allowed, err := l.store.AtomicConsume(ctx, key, l.cfg, now)
	l.recorder.Observe("ratelimit.latency", time.Since(start).Seconds(), nil)
	l.recorder.Add("ratelimit.call", 1, nil)

	if err != nil {
		l.recorder.Add("ratelimit.backend_error", 1, nil)
		if l.failOpen {
			return Decision{Allowed: true}, err
		}
		return Decision{Allowed: false, RetryAfter: retryAfter(0, l.cfg)}, err
	}

	if !allowed {
		l.recorder.Add("ratelimit.denied", 1, nil)
		return Decision{
			Allowed:    false,
			Remaining:  st.Tokens,
			RetryAfter: retryAfter(st.Tokens, l.cfg),
		}, nil
	}

	l.recorder.Add("ratelimit.allowed", 1, nil)
	return Decision{Allowed: true, Remaining: st.Tokens}, nil
}

// Inspect reports the bucket for key as it stands now, without
// consuming a token and without persisting anything. The refill
// projection happens only in the returned snapshot, so repeated
// Inspect calls never change the outcome of a later Allow. A key that
// has never been observed reports full capacity and Tracked == false.
func (l *Limiter) Inspect(ctx context.Context, key string) (Info, error) {
	info := Info{
		Capacity:     l.cfg.Capacity,
		RefillRate:   l.cfg.RefillRate,
		RefillPeriod: l.cfg.RefillPeriod,
	}

	st, ok, err := l.store.GetState(ctx, key)
	if err != nil {
		return Info{}, err
	}
	if !ok {
		info.Tokens = l.cfg.Capacity
		return info, nil
	}

	info.Tokens = projectTokens(st, l.cfg, l.now())
	info.LastRefill = st.LastRefill
	info.Tracked = true
	return info, nil
}

// Config returns the bound bucket policy.
func (l *Limiter) Config() Config {
	return l.cfg
}
