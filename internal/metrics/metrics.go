// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the ledger's collectors.
type Metrics struct {
	ExpensesCreated      *prometheus.CounterVec
	ExpenseRejections    *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	EventPublishFailures prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ExpensesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "expenses_created_total",
			Help:      "Expenses persisted, by split operation.",
		}, []string{"operation"}),
		ExpenseRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "expense_rejections_total",
			Help:      "Expense requests rejected before any write, by reason.",
		}, []string{"reason"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		EventPublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "event_publish_failures_total",
			Help:      "Domain events that could not be published.",
		}),
	}

	reg.MustRegister(
		m.ExpensesCreated,
		m.ExpenseRejections,
		m.RequestDuration,
		m.EventPublishFailures,
	)
	return m
}

// NewUnregistered returns collectors that are not exported anywhere.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}
