package limiter

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRedisStore_ContextCancellation(t *testing.T) {
	client := redisClientForTest(t)

	store, err := NewRedisStore(client)
	if err != nil {
		t.Fatalf("Failed to create RedisStore: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{Capacity: 100, RefillRate: 100, RefillPeriod: time.Second}
	_, _, err = store.AtomicConsume(ctx, "user_cancel", cfg, time.Now())

	if err == nil {
		t.Fatal("Expected an error due to cancelled context, but got nil")
	}

	// The indeterminate outcome surfaces as a backend failure, never as
	// a silent allow or deny.
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Errorf("Expected *BackendError, got: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected error to wrap context.Canceled, but got: %v", err)
	}
}

func TestRedisStore_Deadline(t *testing.T) {
	client := redisClientForTest(t)

	store, err := NewRedisStore(client)
	if err != nil {
		t.Fatalf("Failed to create RedisStore: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
	defer cancel()

	cfg := Config{Capacity: 100, RefillRate: 100, RefillPeriod: time.Second}
	_, _, err = store.AtomicConsume(ctx, "user_deadline", cfg, time.Now())

	if err == nil {
		t.Fatal("Expected timeout error, but got nil")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected error to wrap context.DeadlineExceeded, but got: %v", err)
	}
}

func TestLimiter_FailClosedOnTimeout(t *testing.T) {
	client := redisClientForTest(t)

	store, err := NewRedisStore(client)
	if err != nil {
		t.Fatalf("Failed to create RedisStore: %v", err)
	}

	l, err := New(Config{Capacity: 100, RefillRate: 100, RefillPeriod: time.Second}, store)
	if err != nil {
		t.Fatalf("Failed to create limiter: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dec, err := l.Allow(ctx, "user_timeout")
	if err == nil {
		t.Fatal("Expected backend error for cancelled context")
	}
	if dec.Allowed {
		t.Error("Fail-closed limiter must deny on an indeterminate outcome")
	}
}
