// Package metrics exposes Prometheus collectors for HTTP traffic, the stock ledger
// and the database pool.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inventory/internal/domain/registers/stock"
)

var _ stock.Observer = (*Metrics)(nil)

// Metrics owns every collector of the service.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	movements         *prometheus.CounterVec
	units             *prometheus.CounterVec
	insufficientStock *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, with Go and process collectors included.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "stock_movements_total",
			Help:      "Stock movements written to the ledger.",
		}, []string{"type"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "stock_units_total",
			Help:      "Absolute units moved through the ledger.",
		}, []string{"type"}),
		insufficientStock: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "insufficient_stock_total",
			Help:      "Movements rejected because stock would go negative.",
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.movements,
		m.units,
		m.insufficientStock,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency. Unmatched routes share one label.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// MovementApplied implements stock.Observer.
func (m *Metrics) MovementApplied(mtype stock.MovementType, change int64) {
	if change < 0 {
		change = -change
	}
	m.movements.WithLabelValues(string(mtype)).Inc()
	m.units.WithLabelValues(string(mtype)).Add(float64(change))
}

// InsufficientStock implements stock.Observer.
func (m *Metrics) InsufficientStock(mtype stock.MovementType) {
	m.insufficientStock.WithLabelValues(string(mtype)).Inc()
}
