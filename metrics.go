package doguda

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// appMetrics tracks invocation counts and latencies per command. Every
// invocation, CLI or HTTP, passes through observe exactly once.
type appMetrics struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func newAppMetrics(registry *prometheus.Registry) *appMetrics {
	m := &appMetrics{
		registry: registry,
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "doguda_invocations_total",
			Help: "Command invocations by outcome.",
		}, []string{"command", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "doguda_invocation_duration_seconds",
			Help:    "Command invocation latency, dependency resolution included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"command"}),
	}
	registry.MustRegister(m.invocations, m.duration)
	return m
}

func (m *appMetrics) observe(command string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.invocations.WithLabelValues(command, outcome).Inc()
	m.duration.WithLabelValues(command).Observe(elapsed.Seconds())
}
