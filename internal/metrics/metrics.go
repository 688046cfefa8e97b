// Package metrics holds the Prometheus collectors shared across JáVouCar.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "javoucar"

var (
	// SnapshotSaveFailures counts snapshot writes that were dropped.
	SnapshotSaveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_save_failures_total",
		Help:      "Snapshot writes that failed and were ignored.",
	})

	// RemoteCallDuration observes simulated latency of mock remote calls.
	RemoteCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_call_duration_seconds",
		Help:      "Duration of remote service calls.",
		Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5},
	}, []string{"operation"})

	// VehiclesRegistered counts successful vehicle registrations.
	VehiclesRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vehicles_registered_total",
		Help:      "Vehicles registered through the app.",
	})

	// AlertsSent counts alerts recorded against a known plate.
	AlertsSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_sent_total",
		Help:      "Alerts recorded against a registered vehicle.",
	})

	// OfflineRequests counts requests handled by the offline cache worker by result.
	OfflineRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offline_requests_total",
		Help:      "Requests served by the offline cache worker, by cache result.",
	}, []string{"result"})
)

// Cache results for OfflineRequests.
const (
	ResultHit    = "hit"
	ResultMiss   = "miss"
	ResultBypass = "bypass"
)
