// Package metrics provides Prometheus metrics for the playstyle analytics service.
package metrics

import (
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for pipeline stages.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace    string
	subsystem    string
	stageBuckets []float64
	httpBuckets  []float64
	enabled      bool
	constLabels  map[string]string
	metricPrefix string
	registry     prometheus.Registerer

	// Pipeline metrics
	stageRuns     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec

	// Clustering quality
	entitiesClustered prometheus.Gauge
	clusterCount      prometheus.Gauge
	silhouette        prometheus.Gauge

	// Player side
	playersAdmitted  *prometheus.GaugeVec
	roleStatPairs    prometheus.Gauge
	playerReports    *prometheus.CounterVec
	poolCacheHits    prometheus.Counter
	poolCacheMisses  prometheus.Counter
	poolCacheEntries prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    "playstyle",
		subsystem:    "analytics",
		stageBuckets: defaultStageBuckets,
		httpBuckets:  defaultHTTPBuckets,
		enabled:      true,
		constLabels:  make(map[string]string),
		metricPrefix: "",
		registry:     prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.stageRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pipeline_stage_runs_total"),
		Help:        "Pipeline stage executions by stage and outcome",
		ConstLabels: labels,
	}, []string{"stage", "outcome"})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pipeline_stage_duration_milliseconds"),
		Help:        "Pipeline stage duration in milliseconds",
		Buckets:     m.stageBuckets,
		ConstLabels: labels,
	}, []string{"stage"})

	m.entitiesClustered = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("entities_clustered"),
		Help:        "Team+manager tenures assigned to a cluster in the current fit",
		ConstLabels: labels,
	})

	m.clusterCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("cluster_count"),
		Help:        "Number of clusters in the current fit",
		ConstLabels: labels,
	})

	m.silhouette = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("silhouette_score"),
		Help:        "Mean silhouette score of the current fit",
		ConstLabels: labels,
	})

	m.playersAdmitted = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("players_admitted"),
		Help:        "Players admitted to role statistics by role group",
		ConstLabels: labels,
	}, []string{"role"})

	m.roleStatPairs = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("role_statistic_pairs"),
		Help:        "Usable (role, metric) statistics in the current pool",
		ConstLabels: labels,
	})

	m.playerReports = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("player_reports_total"),
		Help:        "Player z-score reports by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.poolCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pool_cache_hits_total"),
		Help:        "Role statistics served from the pool cache",
		ConstLabels: labels,
	})

	m.poolCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pool_cache_misses_total"),
		Help:        "Role statistics recomputed because the pool was not cached",
		ConstLabels: labels,
	})

	m.poolCacheEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("pool_cache_entries"),
		Help:        "Pools currently held in the role statistics cache",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.httpBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_total"),
		Help:        "Errors by component and type",
		ConstLabels: labels,
	}, []string{"component", "error_type"})
}

// Pipeline Metrics Functions.

// RecordStage records one stage execution and its duration.
func RecordStage(stage, outcome string, duration time.Duration) {
	if !globalManager.enabled {
		return
	}
	globalManager.stageRuns.WithLabelValues(stage, outcome).Inc()
	globalManager.stageDuration.WithLabelValues(stage).Observe(float64(duration.Microseconds()) / 1000)
}

// UpdateFit publishes the shape and quality of the current fit. An undefined
// silhouette is published as NaN.
func UpdateFit(entities, clusters int, silhouette *float64) {
	globalManager.entitiesClustered.Set(float64(entities))
	globalManager.clusterCount.Set(float64(clusters))
	if silhouette == nil {
		globalManager.silhouette.Set(math.NaN())
		return
	}
	globalManager.silhouette.Set(*silhouette)
}

// Player Metrics Functions.

// UpdatePlayersAdmitted sets the admitted player count for a role group.
func UpdatePlayersAdmitted(role string, count int) {
	globalManager.playersAdmitted.WithLabelValues(role).Set(float64(count))
}

// UpdateRoleStatPairs sets the number of usable (role, metric) statistics.
func UpdateRoleStatPairs(count int) {
	globalManager.roleStatPairs.Set(float64(count))
}

// RecordPlayerReport counts a player report by outcome.
func RecordPlayerReport(outcome string) {
	globalManager.playerReports.WithLabelValues(outcome).Inc()
}

// RecordPoolCacheHit increments the pool cache hit counter.
func RecordPoolCacheHit() {
	globalManager.poolCacheHits.Inc()
}

// RecordPoolCacheMiss increments the pool cache miss counter.
func RecordPoolCacheMiss() {
	globalManager.poolCacheMisses.Inc()
}

// UpdatePoolCacheEntries sets the number of cached pools.
func UpdatePoolCacheEntries(count int) {
	globalManager.poolCacheEntries.Set(float64(count))
}

// HTTP Metrics Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
