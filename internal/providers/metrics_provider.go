package providers

import (
	"pcd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncVotes(status string)
	IncRatings(kind, status string)
	IncConversions()
	IncPhaseTransitions(round string)
	SetSseSubscribers(round string, count int)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	votesTotal          *prometheus.CounterVec
	ratingsTotal        *prometheus.CounterVec
	conversionsTotal    prometheus.Counter
	phaseTransitions    *prometheus.CounterVec
	sseSubscribers      *prometheus.GaugeVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncVotes(status string) {
	m.votesTotal.WithLabelValues(status).Inc()
}

func (m *MetricsProvider) IncRatings(kind, status string) {
	m.ratingsTotal.WithLabelValues(kind, status).Inc()
}

func (m *MetricsProvider) IncConversions() {
	m.conversionsTotal.Inc()
}

func (m *MetricsProvider) IncPhaseTransitions(round string) {
	m.phaseTransitions.WithLabelValues(round).Inc()
}

func (m *MetricsProvider) SetSseSubscribers(round string, count int) {
	m.sseSubscribers.WithLabelValues(round).Set(float64(count))
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pcd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pcd_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		votesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pcd_votes_total",
			Help: "Vote submissions by outcome",
		}, []string{"status"}),

		ratingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pcd_ratings_total",
			Help: "Rating submissions by kind and outcome",
		}, []string{"kind", "status"}),

		conversionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pcd_token_conversions_total",
			Help: "Successful token-to-vote conversions",
		}),

		phaseTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pcd_phase_transitions_total",
			Help: "Persisted cycle phase transitions",
		}, []string{"round"}),

		sseSubscribers: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pcd_sse_subscribers",
			Help: "Currently connected snapshot stream subscribers",
		}, []string{"round"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pcd_cache_hits_total",
			Help: "Response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pcd_cache_misses_total",
			Help: "Response cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pcd_persistence_duration_seconds",
			Help:    "Duration of ledger snapshot persistence",
			Buckets: prometheus.DefBuckets,
		}),
	}

	return m
}

type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncVotes(_ string)                                {}
func (n *noopMetrics) IncRatings(_, _ string)                           {}
func (n *noopMetrics) IncConversions()                                  {}
func (n *noopMetrics) IncPhaseTransitions(_ string)                     {}
func (n *noopMetrics) SetSseSubscribers(_ string, _ int)                {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
