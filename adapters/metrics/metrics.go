// Package metrics provides Prometheus metrics collection for Aviate.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for Aviate.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Country detection metrics
	DetectionsTotal *prometheus.CounterVec
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter

	// Chat metrics
	ChatCompletions *prometheus.CounterVec
	ChatTokens      *prometheus.CounterVec
}

// ObserveRequest records one completed HTTP request.
func (c *Collector) ObserveRequest(method, path string, status int, d time.Duration) {
	s := strconv.Itoa(status)
	c.RequestsTotal.WithLabelValues(method, path, s).Inc()
	c.RequestDuration.WithLabelValues(method, path, s).Observe(d.Seconds())
}

// New creates a new metrics collector with all metrics registered.
func New() *Collector {
	return &Collector{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "aviate",
				Name:      "requests_total",
				Help:      "Total number of requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "aviate",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "aviate",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),

		DetectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "aviate",
				Name:      "country_detections_total",
				Help:      "Country detections by chain tier",
			},
			[]string{"source"},
		),
		CacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "aviate",
				Name:      "country_cache_hits_total",
				Help:      "Country cache hits",
			},
		),
		CacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "aviate",
				Name:      "country_cache_misses_total",
				Help:      "Country cache misses (including expiries)",
			},
		),

		ChatCompletions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "aviate",
				Name:      "chat_completions_total",
				Help:      "Chat completions by outcome",
			},
			[]string{"outcome"}, // "ok", "fallback"
		),
		ChatTokens: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "aviate",
				Name:      "chat_tokens_total",
				Help:      "Tokens consumed by the completion API",
			},
			[]string{"kind"}, // "prompt", "completion"
		),
	}
}
