package service

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "bulletin"

// MetricsService owns a private Prometheus registry for the API: request
// traffic, calendar view cache efficiency, content lifecycle transitions and
// the expiry sweep.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheDuration   *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	cacheHitRatio   prometheus.Gauge
	transitions     *prometheus.CounterVec
	sweepArchived   prometheus.Counter

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewMetricsService registers every collector on a fresh registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)
	httpLabels := []string{"method", "path", "status"}

	m := &MetricsService{
		registry: registry,
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, httpLabels),
		requestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template and status.",
		}, httpLabels),
		cacheDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "calendar_cache",
			Name:      "operation_seconds",
			Help:      "Calendar view cache round trips.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1},
		}, []string{"op"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "calendar_cache",
			Name:      "lookups_total",
			Help:      "Calendar view cache lookups by result.",
		}, []string{"result"}),
		cacheHitRatio: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "calendar_cache",
			Name:      "hit_ratio",
			Help:      "Share of calendar view lookups served from cache since start.",
		}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "content_transitions_total",
			Help:      "Lifecycle transitions by content kind, action and outcome.",
		}, []string{"kind", "action", "outcome"}),
		sweepArchived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "expiry_sweep",
			Name:      "archived_total",
			Help:      "Announcements archived by the expiry sweep.",
		}),
	}
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return m
}

// Handler serves the registry, or 503 when metrics are not configured.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records one finished request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

// ObserveCacheLookup counts a calendar view lookup and refreshes the hit ratio.
func (m *MetricsService) ObserveCacheLookup(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheDuration.WithLabelValues("get").Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		m.hits.Add(1)
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
		m.misses.Add(1)
	}
	hits, misses := m.hits.Load(), m.misses.Load()
	m.cacheHitRatio.Set(float64(hits) / float64(hits+misses))
}

// ObserveCacheOp records the latency of a non-lookup cache call such as
// "set" or "invalidate".
func (m *MetricsService) ObserveCacheOp(op string, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordTransition counts one lifecycle attempt. outcome is "ok", "rejected"
// (precondition failed), "conflict" or "error".
func (m *MetricsService) RecordTransition(kind, action, outcome string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(kind, action, outcome).Inc()
}

// AddSweepArchived adds to the expiry sweep counter.
func (m *MetricsService) AddSweepArchived(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sweepArchived.Add(float64(n))
}
