package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Default histogram buckets in milliseconds. A pipeline stage spans a full
// season load or clustering restart set; an HTTP request reads a snapshot.
var (
	defaultStageBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals // read-only defaults
	defaultHTTPBuckets  = []float64{0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000}         //nolint:gochecknoglobals // read-only defaults
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithStageBuckets sets the millisecond buckets of the pipeline stage
// duration histogram. Buckets must be sorted ascending.
func WithStageBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.stageBuckets = buckets
		}
	}
}

// WithHTTPBuckets sets the millisecond buckets of the HTTP duration histogram.
func WithHTTPBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.httpBuckets = buckets
		}
	}
}

// WithMetricsEnabled enables or disables stage recording.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithVocabulary labels every collector with the metric vocabulary version
// the pipeline was fitted against, so series from different vocabularies
// never merge.
func WithVocabulary(version string) Option {
	return func(m *Manager) {
		if version != "" {
			m.constLabels["vocabulary"] = version
		}
	}
}

// WithMetricPrefix sets a custom prefix for metric names.
func WithMetricPrefix(prefix string) Option {
	return func(m *Manager) {
		if prefix != "" {
			m.metricPrefix = prefix
		}
	}
}

// WithPrometheusRegistry sets a custom Prometheus registry.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
