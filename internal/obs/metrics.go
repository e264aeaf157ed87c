package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the rate limiter's counters and timings through
// Prometheus. It implements limiter.MetricsRecorder, translating the
// limiter's flat metric names onto typed collectors.
type Metrics struct {
	Calls           prometheus.Counter
	Decisions       *prometheus.CounterVec
	BackendErrors   prometheus.Counter
	ConsumeDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Calls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ratelimiter_calls_total",
			Help: "Total admission checks performed",
		}),
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratelimiter_decisions_total",
				Help: "Admission outcomes by decision",
			},
			[]string{"decision"},
		),
		BackendErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ratelimiter_backend_errors_total",
			Help: "Total storage backend failures during admission checks",
		}),
		ConsumeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ratelimiter_consume_duration_seconds",
			Help:    "Atomic consume round-trip time in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.Calls, m.Decisions, m.BackendErrors, m.ConsumeDuration)
	return m
}

func (m *Metrics) Add(name string, value float64, _ map[string]string) {
	switch name {
	case "ratelimit.call":
		m.Calls.Add(value)
	case "ratelimit.allowed":
		m.Decisions.WithLabelValues("allowed").Add(value)
	case "ratelimit.denied":
		m.Decisions.WithLabelValues("denied").Add(value)
	case "ratelimit.backend_error":
		m.BackendErrors.Add(value)
	}
}

func (m *Metrics) Observe(name string, value float64, _ map[string]string) {
	if name == "ratelimit.latency" {
		m.ConsumeDuration.Observe(value)
	}
}
