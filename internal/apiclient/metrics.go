package apiclient

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "coach_client",
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of remote API calls by outcome.",
			},
			[]string{"method", "resource", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "coach_client",
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Duration of remote API calls.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "resource"},
		),
	}

	m.requests = register(reg, m.requests)
	m.duration = register(reg, m.duration)
	return m
}

// register reuses an already registered collector so several clients can
// share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func outcome(err error) string {
	var apiErr *Error
	if err == nil {
		return "success"
	}
	if errors.As(err, &apiErr) {
		return apiErr.Kind.String()
	}
	return "error"
}

// resourceOf maps "/smokers/3?x=1" to "smokers"
func resourceOf(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(path, "/?"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}
