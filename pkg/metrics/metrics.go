// Package metrics wires up the Prometheus collectors shared across the
// booking core: HTTP request metrics and database metrics. New registers
// both sets; pkg/dbmetrics records into the database collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the collectors one process registers once at startup.
type Metrics struct {
	ServiceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueriesTotal   *prometheus.CounterVec
	DBQueryDuration  *prometheus.HistogramVec
	DBOpenConns      prometheus.Gauge
	DBInUseConns     prometheus.Gauge
	DBIdleConns      prometheus.Gauge

	BookingTransitions *prometheus.CounterVec
}

// New registers and returns a Metrics bundle under the default registry.
func New(serviceName string) *Metrics {
	return &Metrics{
		ServiceName: serviceName,

		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed, by route and status code.",
		}, []string{"route", "method", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds, by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "db_queries_total",
			Help:      "Total database queries executed, by operation and outcome.",
		}, []string{"operation", "outcome"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency in seconds, by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),

		DBOpenConns: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_open_connections",
			Help:      "Current number of open connections to the database.",
		}),
		DBInUseConns: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_in_use_connections",
			Help:      "Current number of connections in use.",
		}),
		DBIdleConns: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_idle_connections",
			Help:      "Current number of idle connections.",
		}),

		BookingTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "booking_transitions_total",
			Help:      "Total booking state transitions, by from-state, to-state.",
		}, []string{"from", "to"}),
	}
}
