// Package limiter provides local and distributed rate limiting based on
// the Token Bucket algorithm.
//
// The primary entry point is the Limiter, which binds one bucket policy
// to one storage backend:
//
//	l, err := limiter.New(cfg, store)
//	dec, err := l.Allow(ctx, key)
//
// The returned Decision contains whether the request is allowed, the
// token balance left behind, and a retry hint for callers that want to
// set rate-limit headers (for example, Retry-After).
//
// # Overview
//
// Each key has a "bucket" holding tokens. The bucket refills
// continuously over time up to a maximum capacity, and each Allow call
// consumes 1 token when available. Unlike fixed-window counters, token
// buckets naturally support bursts while still enforcing a long-term
// average rate.
//
// The critical property is that the whole "read state, refill, decide,
// write state" sequence is a single indivisible operation per key, no
// matter which backend holds the state. Both backends are required to
// produce identical decisions for identical inputs, so an application
// can develop against MemoryStore and deploy against RedisStore without
// a behavior change.
//
// # Core Types
//
// Config defines the policy:
//
//   - Capacity: maximum tokens the bucket can hold (the maximum
//     immediate burst)
//   - RefillRate: tokens earned per RefillPeriod
//   - RefillPeriod: the window RefillRate is measured over
//
// ParseRate builds a Config from a compact expression such as
// "10/minute", in which case capacity and rate are the same number.
//
// A key is an opaque, case-sensitive string naming whoever the budget
// belongs to (a caller IP, an API key id, a tenant). The package never
// inspects or normalizes it.
//
// # Backends
//
// Two Store implementations share the same contract:
//
//   - MemoryStore: an in-process store with one lock per bucket. Useful
//     for unit tests, local development and single-instance
//     deployments. State is local to the process, so it does not
//     enforce a global limit across replicas.
//
//   - RedisStore: a distributed store backed by Redis. A Lua script
//     performs the read/refill/decide/write cycle atomically on the
//     server, which makes it safe across many application instances
//     while enforcing a single global budget per key. There is no
//     client-side read-then-write round trip anywhere, as that would
//     reintroduce the race the script exists to prevent.
//
// # Concurrency
//
// Both stores are safe for concurrent use by multiple goroutines. For
// a fixed key, consume operations observe one linear history of state
// transitions regardless of the calling goroutine or process;
// operations on different keys are fully independent.
//
// # Context and Error Policy
//
// Allow accepts a context.Context, which RedisStore passes through to
// Redis so callers can enforce deadlines and cancel work during partial
// outages. Store failures surface as *BackendError, which is a distinct
// condition from a denial: a denied request is a normal Decision, never
// an error.
//
// The fail policy on backend errors is explicit. The default is
// fail-closed (deny, protecting the budget guarantee); WithFailOpen
// switches to admitting traffic during an outage (protecting
// availability). In both modes the *BackendError is still returned
// alongside the policy decision.
//
// # Decision Semantics
//
//   - Allowed reports whether the current request is permitted.
//   - Remaining is the (possibly fractional) balance after the decision
//     is applied.
//   - RetryAfter is 0 when allowed; when denied it is the time until a
//     whole token will have accrued, computed from the fractional
//     balance as (1 - tokens) * period / rate.
//
// # Storage Details
//
// RedisStore keeps one JSON record per bucket under "<prefix><key>":
//
//	{"tokens": <number>, "timestamp": <seconds since epoch>}
//
// Records expire so idle keys do not leak memory, but never sooner than
// the bucket's full-refill time: expiring earlier would hand an idle
// caller a fresh full bucket before their budget had truly recovered.
//
// MemoryStore does not evict old buckets; for long-lived processes with
// high-cardinality keys, prefer RedisStore.
//
// # Configuration
//
// RedisStore and Limiter use the Functional Options pattern:
//
//	store, _ := limiter.NewRedisStore(client,
//		limiter.WithPrefix("myapp:rate:"),
//		limiter.WithTimeout(2*time.Second),
//	)
//	l, _ := limiter.New(cfg, store,
//		limiter.WithRecorder(myMetrics),
//	)
//
// Supported store options: WithPrefix (default "rate_limit:"), WithTTL
// (default 2h, clamped up to the full-refill time), WithTimeout
// (default 5s). Supported limiter options: WithFailOpen, WithClock,
// WithRecorder.
package limiter
