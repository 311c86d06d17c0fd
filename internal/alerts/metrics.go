package alerts

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveAlerts tracks the number of configured alerts.
	ActiveAlerts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cryptotracker_alerts_active",
		Help: "Number of configured price alerts",
	})

	// AlertsTriggeredTotal tracks alert triggers by direction.
	AlertsTriggeredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptotracker_alerts_triggered_total",
		Help: "Total number of triggered price alerts",
	}, []string{"direction"})
)
