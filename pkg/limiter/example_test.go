package limiter

import (
	"context"
	"fmt"
	"time"
)

func ExampleLimiter() {
	store := NewMemoryStore()

	l, err := New(Config{
		Capacity:     10,
		RefillRate:   10,
		RefillPeriod: time.Second,
	}, store)
	if err != nil {
		panic(err)
	}

	dec, err := l.Allow(context.Background(), "user_123")
	if err != nil {
		panic(err)
	}

	fmt.Println(dec.Allowed)
	// Output:
	// true
}

func ExampleParseRate() {
	cfg, err := ParseRate("10/minute")
	if err != nil {
		panic(err)
	}

	fmt.Println(cfg.Capacity, cfg.RefillRate, cfg.RefillPeriod)
	// Output:
	// 10 10 1m0s
}
