package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cryptotracker_cache_hits_total",
		Help: "Total number of cache hits",
	})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cryptotracker_cache_misses_total",
		Help: "Total number of cache misses",
	})

	CacheSetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cryptotracker_cache_sets_total",
		Help: "Total number of cache sets",
	})

	CacheDeletesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cryptotracker_cache_deletes_total",
		Help: "Total number of cache deletes",
	})

	// CacheExpirationsTotal counts entries removed lazily on read after their TTL elapsed.
	CacheExpirationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cryptotracker_cache_expirations_total",
		Help: "Total number of entries evicted on read after expiring",
	})

	CacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cryptotracker_cache_entries",
		Help: "Number of entries currently held by the TTL cache",
	})
)
