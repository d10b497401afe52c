// Package metrics provides Prometheus metrics for the resolution engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector aggregates the counters and histograms exposed on /metrics.
type Collector struct {
	resolutionsTotal *prometheus.CounterVec
	resolveDuration  prometheus.Histogram
	cacheRequests    *prometheus.CounterVec
	fallbackTotal    *prometheus.CounterVec
	datasetReloads   *prometheus.CounterVec
	boundariesLoaded *prometheus.GaugeVec
}

func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "muniresolve"
	}

	return &Collector{
		resolutionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Total number of point resolutions by source and outcome",
			},
			[]string{"source", "outcome"},
		),

		resolveDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resolve_duration_seconds",
				Help:      "Resolution duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		cacheRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "Result cache lookups by outcome",
			},
			[]string{"outcome"},
		),

		fallbackTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallback_requests_total",
				Help:      "Remote fallback lookups by outcome",
			},
			[]string{"outcome"},
		),

		datasetReloads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_reloads_total",
				Help:      "Dataset reload attempts by outcome",
			},
			[]string{"outcome"},
		),

		boundariesLoaded: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "boundaries_loaded",
				Help:      "Number of boundaries in the current dataset version",
			},
			[]string{"level"},
		),
	}
}

func (c *Collector) IncResolution(source, outcome string) {
	c.resolutionsTotal.WithLabelValues(source, outcome).Inc()
}

func (c *Collector) ObserveResolveDuration(d time.Duration) {
	c.resolveDuration.Observe(d.Seconds())
}

func (c *Collector) IncCacheHit() {
	c.cacheRequests.WithLabelValues("hit").Inc()
}

func (c *Collector) IncCacheMiss() {
	c.cacheRequests.WithLabelValues("miss").Inc()
}

func (c *Collector) IncFallback(outcome string) {
	c.fallbackTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) IncDatasetReload(success bool) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	c.datasetReloads.WithLabelValues(outcome).Inc()
}

func (c *Collector) SetBoundariesLoaded(level string, n int) {
	c.boundariesLoaded.WithLabelValues(level).Set(float64(n))
}
