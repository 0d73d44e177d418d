package service

import "github.com/okian/playstyle/pkg/metrics"

// cacheMetrics publishes pool cache events to Prometheus.
type cacheMetrics struct{}

func (cacheMetrics) Hit()          { metrics.RecordPoolCacheHit() }
func (cacheMetrics) Miss()         { metrics.RecordPoolCacheMiss() }
func (cacheMetrics) Entries(n int) { metrics.UpdatePoolCacheEntries(n) }
