// Package metrics provides Prometheus metrics for translatedtext
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for store and resolver activity
type Metrics struct {
	registry *prometheus.Registry

	DbOperationsTotal   *prometheus.CounterVec
	DbOperationDuration *prometheus.HistogramVec
	DbRowsTotal         *prometheus.CounterVec

	// Fallback tier activity
	FallbackLookupsTotal prometheus.Counter
	FallbackIDsRequested prometheus.Counter
	FallbackIDsResolved  prometheus.Counter
	UnresolvedIDsTotal   prometheus.Counter

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the metrics on a dedicated registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		DbOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "translatedtext_db_operations_total",
				Help: "Total number of table operations",
			},
			[]string{"operation", "status"},
		),
		DbOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "translatedtext_db_operation_duration_seconds",
				Help:    "Duration of table operations in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
		DbRowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "translatedtext_db_rows_total",
				Help: "Rows returned or affected by table operations",
			},
			[]string{"operation"},
		),
		FallbackLookupsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "translatedtext_fallback_lookups_total",
			Help: "Reads that needed a fallback language query",
		}),
		FallbackIDsRequested: factory.NewCounter(prometheus.CounterOpts{
			Name: "translatedtext_fallback_ids_requested_total",
			Help: "Entity ids looked up in the fallback language",
		}),
		FallbackIDsResolved: factory.NewCounter(prometheus.CounterOpts{
			Name: "translatedtext_fallback_ids_resolved_total",
			Help: "Entity ids resolved by the fallback language",
		}),
		UnresolvedIDsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "translatedtext_unresolved_ids_total",
			Help: "Entity ids with no value in either language",
		}),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "translatedtext_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "translatedtext_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

// Registry exposes the underlying registry for tests and custom exporters
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordDbOperation records one table operation
func (m *Metrics) RecordDbOperation(operation string, rows int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DbOperationsTotal.WithLabelValues(operation, status).Inc()
	m.DbOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if rows > 0 {
		m.DbRowsTotal.WithLabelValues(operation).Add(float64(rows))
	}
}

// RecordFallback records one fallback tier lookup
func (m *Metrics) RecordFallback(requested, resolved int) {
	if m == nil {
		return
	}
	m.FallbackLookupsTotal.Inc()
	m.FallbackIDsRequested.Add(float64(requested))
	m.FallbackIDsResolved.Add(float64(resolved))
	if requested > resolved {
		m.UnresolvedIDsTotal.Add(float64(requested - resolved))
	}
}

// InstrumentHandler wraps an HTTP handler with request counters
func (m *Metrics) InstrumentHandler(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return promhttp.InstrumentHandlerDuration(m.HTTPRequestDuration,
		promhttp.InstrumentHandlerCounter(m.HTTPRequestsTotal, next))
}
