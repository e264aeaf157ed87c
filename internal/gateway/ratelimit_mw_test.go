package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/DanielPopoola/rate-limiter/pkg/limiter"
)

func newTestHandler(t *testing.T, cfg limiter.Config) http.Handler {
	t.Helper()

	l, err := limiter.New(cfg, limiter.NewMemoryStore())
	if err != nil {
		t.Fatal(err)
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RateLimit(l, ClientIP, zerolog.Nop())(ok)
}

func TestRateLimit_DeniesWithHeaders(t *testing.T) {
	h := newTestHandler(t, limiter.Config{Capacity: 2, RefillRate: 1, RefillPeriod: time.Minute})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:54321"
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i+1, rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Limit"); got != "2" {
			t.Errorf("Expected X-RateLimit-Limit 2, got %q", got)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got == "" || got == "0" {
		t.Errorf("Expected positive Retry-After, got %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("Expected 0 remaining, got %q", got)
	}
}

func TestRateLimit_KeysByClientIP(t *testing.T) {
	h := newTestHandler(t, limiter.Config{Capacity: 1, RefillRate: 1, RefillPeriod: time.Minute})

	first := httptest.NewRequest(http.MethodGet, "/ping", nil)
	first.RemoteAddr = "10.0.0.1:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	// Same host, different port: same budget.
	samePeer := httptest.NewRequest(http.MethodGet, "/ping", nil)
	samePeer.RemoteAddr = "10.0.0.1:2000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, samePeer)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Expected same-IP request to share the budget, got %d", rec.Code)
	}

	// Different host: separate budget.
	other := httptest.NewRequest(http.MethodGet, "/ping", nil)
	other.RemoteAddr = "10.0.0.2:1000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected other IP to be admitted, got %d", rec.Code)
	}
}
