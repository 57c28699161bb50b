// Package metrics holds the prometheus collectors for crypto operations
// and HTTP traffic, registered on a dedicated registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "qkit"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds all collectors.
type Metrics struct {
	registry *prometheus.Registry

	CryptoOperations *prometheus.CounterVec
	CryptoDuration   *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, with the Go runtime and
// process collectors alongside.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		CryptoOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crypto_operations_total",
			Help:      "Total number of KEM and DSA operations.",
		}, []string{"algorithm", "operation", "result"}),
		CryptoDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "crypto_operation_duration_seconds",
			Help:      "Duration of KEM and DSA operations.",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		}, []string{"algorithm", "operation"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.CryptoOperations,
		m.CryptoDuration,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveOperation records one operation that started at start.
func (m *Metrics) ObserveOperation(algorithm, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.CryptoOperations.WithLabelValues(algorithm, operation, result).Inc()
	m.CryptoDuration.WithLabelValues(algorithm, operation).Observe(time.Since(start).Seconds())
}

// ObserveRequest counts one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Gatherer returns the registry for export.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
