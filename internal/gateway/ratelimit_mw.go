package gateway

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/DanielPopoola/rate-limiter/pkg/limiter"
)

type Middleware func(http.Handler) http.Handler

// KeyFunc extracts the identity a request is budgeted under.
type KeyFunc func(*http.Request) string

// ClientIP keys requests by remote address, ignoring the port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit guards a handler with the given limiter. Denials become a
// 429 with Retry-After; backend failures are logged and the limiter's
// fail policy decides whether the request proceeds.
func RateLimit(l *limiter.Limiter, keyFn KeyFunc, log zerolog.Logger) Middleware {
	cfg := l.Config()
	limitHeader := strconv.FormatFloat(cfg.Capacity, 'f', -1, 64)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)

			dec, err := l.Allow(r.Context(), key)
			if err != nil {
				log.Error().Err(err).Str("key", key).Msg("rate limiter backend failure")
			}

			// Headers carry whole tokens; the fractional balance stays
			// internal.
			w.Header().Set("X-RateLimit-Limit", limitHeader)
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(maxf(dec.Remaining, 0)), 10))

			if !dec.Allowed {
				retry := ceilSeconds(dec.RetryAfter)
				w.Header().Set("Retry-After", strconv.FormatInt(retry, 10))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded","retry_after_seconds":` + strconv.FormatInt(retry, 10) + `}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog logs one line per request with status and duration.
func AccessLog(log zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote", r.RemoteAddr).
				Int("status", rec.status).
				Dur("dur", time.Since(start)).
				Msg("req")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64((d + time.Second - 1) / time.Second)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
