package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the API's Prometheus collectors.
type Metrics struct {
	histories   *prometheus.CounterVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	duration    *prometheus.HistogramVec
	requests    *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		histories: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algoquest_histories_generated_total",
			Help: "Step histories served, by algorithm.",
		}, []string{"algorithm"}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "algoquest_history_cache_hits_total",
			Help: "History requests answered from the cache.",
		}),
		cacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "algoquest_history_cache_misses_total",
			Help: "History requests that had to be generated.",
		}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "algoquest_history_generation_seconds",
			Help:    "Time to produce a step history, cache lookup included.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"algorithm"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "algoquest_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
}
