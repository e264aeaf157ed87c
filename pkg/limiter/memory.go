package limiter

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	mu sync.Mutex
	st State
}

// MemoryStore is an in-process Store backed by a concurrent map with
// one lock per bucket, so unrelated keys never contend. Critical
// sections contain only in-memory arithmetic, no I/O.
//
// Its state is local to the process and is not shared across replicas;
// use RedisStore when a single global budget must hold across many
// instances. MemoryStore operations have no I/O failure mode and never
// return an error.
type MemoryStore struct {
	buckets sync.Map // key -> *bucket
}

// NewMemoryStore constructs a MemoryStore with empty state.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) AtomicConsume(_ context.Context, key string, cfg Config, now time.Time) (State, bool, error) {
	b := m.bucketFor(key, State{Tokens: cfg.Capacity, LastRefill: now})

	b.mu.Lock()
	defer b.mu.Unlock()

	st, allowed := refillAndDecide(b.st, cfg, now)
	b.st = st
	return st, allowed, nil
}

func (m *MemoryStore) GetState(_ context.Context, key string) (State, bool, error) {
	v, ok := m.buckets.Load(key)
	if !ok {
		return State{}, false, nil
	}

	b := v.(*bucket)
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.st, true, nil
}

func (m *MemoryStore) SetState(_ context.Context, key string, st State, _ Config) error {
	b := m.bucketFor(key, st)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.st = st
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) bucketFor(key string, initial State) *bucket {
	if v, ok := m.buckets.Load(key); ok {
		return v.(*bucket)
	}
	v, _ := m.buckets.LoadOrStore(key, &bucket{st: initial})
	return v.(*bucket)
}
