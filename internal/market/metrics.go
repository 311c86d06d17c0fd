package market

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchDurationSeconds tracks remote API latency per endpoint.
	FetchDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cryptotracker_market_fetch_duration_seconds",
		Help:    "Duration of CryptoCompare API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// FetchErrorsTotal tracks failed accessor calls by endpoint and error kind.
	FetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptotracker_market_fetch_errors_total",
		Help: "Total number of market data fetch failures",
	}, []string{"endpoint", "kind"})

	// AccessorCacheHitsTotal tracks accessor reads served from cache.
	AccessorCacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptotracker_market_cache_hits_total",
		Help: "Total number of market data reads served from cache",
	}, []string{"kind"})

	// AccessorCacheMissesTotal tracks accessor reads that went to the API.
	AccessorCacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptotracker_market_cache_misses_total",
		Help: "Total number of market data reads that required a fetch",
	}, []string{"kind"})

	// LimitMismatchTotal counts cached movers/trending results served for a
	// different limit than the one they were fetched with.
	LimitMismatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptotracker_market_cached_limit_mismatch_total",
		Help: "Cached movers/trending results served for a different limit",
	}, []string{"kind"})
)
