package watcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChecksTotal tracks alert check runs.
	ChecksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cryptotracker_watcher_checks_total",
		Help: "Total number of alert check runs",
	})

	// CheckDurationSeconds tracks the duration of an alert check run.
	CheckDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cryptotracker_watcher_check_duration_seconds",
		Help:    "Duration of alert check runs",
		Buckets: prometheus.DefBuckets,
	})

	// StoreErrorsTotal tracks events that could not be stored.
	StoreErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cryptotracker_watcher_store_errors_total",
		Help: "Total number of triggered events that failed to store",
	})
)
