// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability counters for the ticketing service.
type Metrics struct {
	// Entry validation verdicts by result ("valid" or "invalid")
	ValidationVerdicts *prometheus.CounterVec

	// Purchases created
	PurchasesCreated prometheus.Counter

	// Confirmation emails by delivery status ("sent" or "failed")
	EmailsLogged *prometheus.CounterVec

	// HTTP request durations by method and route pattern
	RequestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with all service metrics registered
// on the default registry.
func New() *Metrics {
	return &Metrics{
		ValidationVerdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "entrada_validation_verdicts_total",
			Help: "Total entry validation verdicts by result",
		}, []string{"result"}),

		PurchasesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "entrada_purchases_created_total",
			Help: "Total purchases created",
		}),

		EmailsLogged: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "entrada_emails_total",
			Help: "Total confirmation emails by delivery status",
		}, []string{"status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "entrada_http_request_duration_seconds",
			Help:    "HTTP request duration by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),
	}
}

// IncrementVerdict records an entry validation verdict.
func (m *Metrics) IncrementVerdict(valid bool) {
	if m == nil {
		return
	}
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.ValidationVerdicts.WithLabelValues(result).Inc()
}

// IncrementPurchase records a created purchase.
func (m *Metrics) IncrementPurchase() {
	if m != nil {
		m.PurchasesCreated.Inc()
	}
}

// IncrementEmail records a confirmation email delivery attempt.
func (m *Metrics) IncrementEmail(status string) {
	if m != nil {
		m.EmailsLogged.WithLabelValues(status).Inc()
	}
}

// ObserveRequest records the duration of an HTTP request in seconds.
func (m *Metrics) ObserveRequest(method, route string, seconds float64) {
	if m != nil {
		m.RequestDuration.WithLabelValues(method, route).Observe(seconds)
	}
}
