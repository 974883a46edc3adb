// Package metrics exposes cache, build and request counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/knowgraph/internal/core/ports"
)

// Namespace prefixes every exported metric.
const Namespace = "knowgraph"

var _ ports.Metrics = (*Collector)(nil)

// Collector implements ports.Metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	parseErrors  prometheus.Counter
	builds       *prometheus.CounterVec
	buildSeconds *prometheus.HistogramVec
	requests     *prometheus.CounterVec
	reqSeconds   *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry, so several
// instances can coexist in tests.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "cache_hits_total",
				Help:      "Cache hits by layer.",
			},
			[]string{"layer"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "cache_misses_total",
				Help:      "Cache misses by layer.",
			},
			[]string{"layer"},
		),
		parseErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "parse_failures_total",
				Help:      "Posts that could not be parsed.",
			},
		),
		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "builds_total",
				Help:      "Graph builds by layer and outcome.",
			},
			[]string{"layer", "outcome"},
		),
		buildSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "build_duration_seconds",
				Help:      "Graph build duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"layer"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests served.",
			},
			[]string{"method", "route", "status"},
		),
		reqSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(
		c.cacheHits,
		c.cacheMisses,
		c.parseErrors,
		c.builds,
		c.buildSeconds,
		c.requests,
		c.reqSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) CacheHit(layer string) {
	c.cacheHits.WithLabelValues(layer).Inc()
}

func (c *Collector) CacheMiss(layer string) {
	c.cacheMisses.WithLabelValues(layer).Inc()
}

func (c *Collector) ParseFailed() {
	c.parseErrors.Inc()
}

func (c *Collector) BuildFinished(layer string, elapsed time.Duration, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "degraded"
	}
	c.builds.WithLabelValues(layer, outcome).Inc()
	c.buildSeconds.WithLabelValues(layer).Observe(elapsed.Seconds())
}

func (c *Collector) RequestServed(route, method string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.reqSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
