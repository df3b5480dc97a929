package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records http request metrics.
type Metrics interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	// Handler returns metrics exposition handler, or nil if metrics are disabled.
	Handler() http.Handler
}

// PrometheusMetrics keeps metrics in its own prometheus registry.
type PrometheusMetrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates Metrics. If disabled, returned instance does nothing.
// liveConnections, if set, is exposed as a gauge.
func NewMetrics(enabled bool, liveConnections func() int) Metrics {
	if !enabled {
		return noopMetrics{}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &PrometheusMetrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}

	if liveConnections != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "portfolio_live_connections",
			Help: "Current number of live page connections",
		}, func() float64 {
			return float64(liveConnections())
		})
	}

	return m
}

// IncRequestsTotal counts finished request.
func (m *PrometheusMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

// ObserveRequestDuration records request duration.
func (m *PrometheusMetrics) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Handler returns metrics exposition handler.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (noopMetrics) Handler() http.Handler                            { return nil }
