// Package metrics registers Prometheus collectors on the default registry.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every collector registered by the service
const Namespace = "hinote"

// DefaultBuckets spans sub-millisecond handlers up to slow model calls
var DefaultBuckets = []float64{
	0.0005,
	0.001, // 1ms
	0.002,
	0.005,
	0.01, // 10ms
	0.02,
	0.05,
	0.1, // 100 ms
	0.2,
	0.5,
	1.0, // 1s
	2.0,
	5.0,
	10.0, // 10s
	15.0,
	30.0,
}

// HistogramVec registers a histogram vector, or returns the one already
// registered under the same name and labels.
func HistogramVec(name, help string, labels ...string) (*prometheus.HistogramVec, error) {
	return register(prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
		Buckets:   DefaultBuckets,
	}, labels))
}

// CounterVec registers a counter vector, or returns the one already
// registered under the same name and labels.
func CounterVec(name, help string, labels ...string) (*prometheus.CounterVec, error) {
	return register(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	}, labels))
}

// MustCounterVec is like CounterVec but panics on a registration conflict
func MustCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	counter, err := CounterVec(name, help, labels...)
	if err != nil {
		panic(err)
	}
	return counter
}

func register[T prometheus.Collector](collector T) (T, error) {
	if err := prometheus.Register(collector); err != nil {
		var registeredErr prometheus.AlreadyRegisteredError
		if errors.As(err, &registeredErr) {
			if existing, ok := registeredErr.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, fmt.Errorf("register: %w", err)
	}
	return collector, nil
}
