// Package metrics provides Prometheus metrics for the infirmary API:
// HTTP request counters, latency and in-flight gauges, plus domain
// metrics for recorded doses, allergy conflicts and the overdue sweep.
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen recently)",
		},
	)

	DosesRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "doses_recorded_total",
			Help: "Total administration records written",
		},
	)

	AllergyConflictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allergy_conflicts_total",
			Help: "Allergy conflicts raised, by outcome (blocked or acknowledged)",
		},
		[]string{"outcome"},
	)

	PrescriptionsOverdue = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "prescriptions_overdue",
			Help: "Prescriptions currently overdue, from the last sweep",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(DosesRecordedTotal)
	prometheus.MustRegister(AllergyConflictsTotal)
	prometheus.MustRegister(PrescriptionsOverdue)
}
