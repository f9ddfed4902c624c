// Package metrics exposes Prometheus instrumentation for the dashboard API
// and the fetch pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chemlens"

// Metrics bundles every collector behind one registry so tests can run with
// isolated instances instead of fighting over the global default.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DatasetLoadsTotal *prometheus.CounterVec
	ActiveDatasets    prometheus.Gauge
	DatasetRows       *prometheus.HistogramVec

	ChemblRequestsTotal *prometheus.CounterVec
}

// New builds a Metrics instance with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DatasetLoadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset loads by source (sample, upload, chembl).",
		}, []string{"source", "outcome"}),
		ActiveDatasets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_datasets",
			Help:      "Dataset sessions currently held in memory.",
		}),
		DatasetRows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Row counts of loaded datasets by source.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
		}, []string{"source"}),
		ChemblRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chembl_requests_total",
			Help:      "ChEMBL fetch attempts by outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DatasetLoadsTotal,
		m.ActiveDatasets,
		m.DatasetRows,
		m.ChemblRequestsTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latencies per route.  The route
// template (not the raw path) is used as the label to keep cardinality flat.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveDatasetLoad records one dataset load attempt.
func (m *Metrics) ObserveDatasetLoad(source string, rows int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.DatasetLoadsTotal.WithLabelValues(source, outcome).Inc()
	if err == nil {
		m.DatasetRows.WithLabelValues(source).Observe(float64(rows))
	}
}
