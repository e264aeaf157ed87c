package limiter

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:embed token_bucket.lua
var tokenBucketScript string

// record is the on-the-wire bucket state stored under <prefix><key>.
type record struct {
	Tokens    float64 `json:"tokens"`
	Timestamp float64 `json:"timestamp"`
}

// RedisStore is a Store backed by a shared Redis instance. The whole
// read-refill-decide-write sequence runs as one server-side Lua script,
// never as a client-side get/compute/set round trip, which makes it
// safe across many application instances while enforcing a single
// global budget per key.
//
// Every write sets an expiration of at least the bucket's full-refill
// time, so idle keys are evicted only once their budget would have
// fully recovered anyway.
type RedisStore struct {
	client  redis.UniversalClient
	script  *redis.Script
	prefix  string
	ttl     time.Duration
	timeout time.Duration
}

// NewRedisStore constructs a RedisStore on top of an existing client.
// The client is pinged once to surface connectivity problems at wiring
// time rather than on the first request. The store does not take
// ownership of the client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) (*RedisStore, error) {
	s := &RedisStore{
		client:  client,
		script:  redis.NewScript(tokenBucketScript),
		prefix:  defaultKeyPrefix,
		ttl:     defaultRecordTTL,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, &BackendError{Op: "ping", Err: err}
	}

	return s, nil
}

func (s *RedisStore) AtomicConsume(ctx context.Context, key string, cfg Config, now time.Time) (State, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.script.Run(ctx, s.client, []string{s.prefix + key},
		cfg.Capacity,                // ARGV[1]
		cfg.RefillRate,              // ARGV[2]
		cfg.RefillPeriod.Seconds(),  // ARGV[3]
		timeToFloat(now),            // ARGV[4]
		s.recordTTLSeconds(cfg),     // ARGV[5]
	).Result()
	if err != nil {
		return State{}, false, &BackendError{Op: "consume", Err: err}
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return State{}, false, &BackendError{Op: "consume", Err: fmt.Errorf("unexpected script result %T", result)}
	}

	allowed, _ := values[0].(int64)
	tokens, err := toFloat(values[1])
	if err != nil {
		return State{}, false, &BackendError{Op: "consume", Err: err}
	}

	return State{Tokens: tokens, LastRefill: now}, allowed == 1, nil
}

func (s *RedisStore) GetState(ctx context.Context, key string) (State, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, &BackendError{Op: "get", Err: err}
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return State{}, false, &BackendError{Op: "get", Err: err}
	}

	return State{Tokens: rec.Tokens, LastRefill: floatToTime(rec.Timestamp)}, true, nil
}

func (s *RedisStore) SetState(ctx context.Context, key string, st State, cfg Config) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := json.Marshal(record{
		Tokens:    st.Tokens,
		Timestamp: timeToFloat(st.LastRefill),
	})
	if err != nil {
		return &BackendError{Op: "set", Err: err}
	}

	ttl := time.Duration(s.recordTTLSeconds(cfg)) * time.Second
	if err := s.client.Set(ctx, s.prefix+key, raw, ttl).Err(); err != nil {
		return &BackendError{Op: "set", Err: err}
	}
	return nil
}

// Close is a no-op: the store does not own the client it was built on.
func (s *RedisStore) Close() error { return nil }

// recordTTLSeconds clamps the configured TTL to at least the bucket's
// full-refill time. A shorter TTL would let an idle key expire and
// reset to full capacity before its budget had truly recovered.
func (s *RedisStore) recordTTLSeconds(cfg Config) int64 {
	ttl := s.ttl
	if fr := cfg.fullRefill(); fr > ttl {
		ttl = fr
	}
	secs := int64(math.Ceil(ttl.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

func timeToFloat(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

func floatToTime(f float64) time.Time {
	return time.UnixMicro(int64(f * 1e6))
}

func toFloat(val interface{}) (float64, error) {
	switch v := val.(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("unexpected numeric type %T", val)
	}
}
