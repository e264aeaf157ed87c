package limiter

// MetricsRecorder receives counters and timings from a Limiter. The
// limiter emits:
//
//   - "ratelimit.call" (counter): every Allow call
//   - "ratelimit.allowed" / "ratelimit.denied" (counters): outcomes
//   - "ratelimit.backend_error" (counter): store failures
//   - "ratelimit.latency" (timing, seconds): store round-trip time
type MetricsRecorder interface {
	Add(name string, value float64, tags map[string]string)
	Observe(name string, value float64, tags map[string]string)
}

// NoOpMetricsRecorder is a placeholder that does nothing.
// It ensures we never have to check 'if recorder != nil' in the hot path.
type NoOpMetricsRecorder struct{}

func (n *NoOpMetricsRecorder) Add(name string, value float64, tags map[string]string)     {}
func (n *NoOpMetricsRecorder) Observe(name string, value float64, tags map[string]string) {}
