package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CacheMetrics records cache hit/miss counts for a named cache.
// Implementations must be safe for concurrent use.
type CacheMetrics interface {
	RecordHit(cache string)
	RecordMiss(cache string)
}

// RouterMetrics records routing outcomes and durations.
type RouterMetrics interface {
	RecordQuestion(method string)
	ObserveRouteDuration(path string, seconds float64)
}

// HTTPMetrics records HTTP request counts and durations.
type HTTPMetrics interface {
	RecordRequest(method, route, statusClass string, seconds float64)
}

// Metrics bundles all Prometheus collectors registered by the service.
type Metrics struct {
	questionsTotal *prometheus.CounterVec
	routeDuration  *prometheus.HistogramVec
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// Ensure Metrics satisfies the consumer interfaces.
var (
	_ CacheMetrics  = (*Metrics)(nil)
	_ RouterMetrics = (*Metrics)(nil)
	_ HTTPMetrics   = (*Metrics)(nil)
)

// NewMetrics creates and registers all collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		questionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "projectgraph_questions_total",
			Help: "Routed questions by resolution method.",
		}, []string{"method"}),
		routeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "projectgraph_route_duration_seconds",
			Help:    "Wall time of the routing pipeline by path (template or fallback).",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"path"}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "projectgraph_cache_hits_total",
			Help: "Cache hits by cache name.",
		}, []string{"cache"}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "projectgraph_cache_misses_total",
			Help: "Cache misses by cache name.",
		}, []string{"cache"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "projectgraph_http_requests_total",
			Help: "HTTP requests by method, route, and status class.",
		}, []string{"method", "route", "status_class"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "projectgraph_http_request_duration_seconds",
			Help:    "HTTP request duration by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// RecordRequest records one completed HTTP request.
func (m *Metrics) RecordRequest(method, route, statusClass string, seconds float64) {
	m.httpRequests.WithLabelValues(method, route, statusClass).Inc()
	m.httpDuration.WithLabelValues(route).Observe(seconds)
}

// RecordQuestion increments the question counter for the given method.
func (m *Metrics) RecordQuestion(method string) {
	m.questionsTotal.WithLabelValues(method).Inc()
}

// ObserveRouteDuration records the duration of one routing pipeline run.
func (m *Metrics) ObserveRouteDuration(path string, seconds float64) {
	m.routeDuration.WithLabelValues(path).Observe(seconds)
}

// RecordHit increments the hit counter for the named cache.
func (m *Metrics) RecordHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// RecordMiss increments the miss counter for the named cache.
func (m *Metrics) RecordMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}
