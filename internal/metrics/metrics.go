// Package metrics holds the Prometheus collectors for evaluations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all Prometheus metrics for the scorer and its server.
type Registry struct {
	Evaluations        *prometheus.CounterVec
	EvaluationDuration *prometheus.HistogramVec
	Alternatives       prometheus.Histogram
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewRegistry creates the collectors and registers them on a fresh registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "topsis_evaluations_total",
				Help: "Total number of evaluations by result kind",
			},
			[]string{"result"},
		),

		EvaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "topsis_evaluation_duration_seconds",
				Help:    "Duration of each evaluation in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"source"},
		),

		Alternatives: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "topsis_alternatives",
				Help:    "Number of alternatives ranked per successful evaluation",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
		),

		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "topsis_cache_hits_total",
				Help: "Total number of result cache hits",
			},
		),

		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "topsis_cache_misses_total",
				Help: "Total number of result cache misses",
			},
		),

		gatherer: reg,
	}

	reg.MustRegister(
		r.Evaluations,
		r.EvaluationDuration,
		r.Alternatives,
		r.CacheHits,
		r.CacheMisses,
	)

	return r
}

// Gatherer exposes the underlying registry for the /metrics handler.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.gatherer
}

// ObserveEvaluation records one evaluation. result is "ok" or an error kind.
func (r *Registry) ObserveEvaluation(source, result string, alternatives int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.Evaluations.WithLabelValues(result).Inc()
	r.EvaluationDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	if result == "ok" {
		r.Alternatives.Observe(float64(alternatives))
	}
}

func (r *Registry) ObserveCache(hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.CacheHits.Inc()
	} else {
		r.CacheMisses.Inc()
	}
}
