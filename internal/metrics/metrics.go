// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "weddingbudget"

// Metrics groups the service and HTTP collectors.
type Metrics struct {
	Calculations            *prometheus.CounterVec
	CalculationDuration     prometheus.Histogram
	RecommendationSource    *prometheus.CounterVec
	RecommendationFallbacks *prometheus.CounterVec
	PersistFailures         prometheus.Counter
	HTTPRequests            *prometheus.CounterVec
	HTTPDuration            *prometheus.HistogramVec
}

// New registers all collectors with reg. Pass prometheus.NewRegistry() in
// tests to avoid clashing with the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Calculations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Budget calculations by efficiency tier.",
		}, []string{"efficiency"}),
		CalculationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Time spent producing a calculation, including text generation.",
			Buckets:   []float64{.001, .005, .025, .1, .5, 1, 2, 4, 8},
		}),
		RecommendationSource: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendations returned by source.",
		}, []string{"source"}),
		RecommendationFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendation_fallbacks_total",
			Help:      "Generated recommendations replaced by rule-based advice.",
		}, []string{"reason"}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Calculation results that could not be stored.",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
