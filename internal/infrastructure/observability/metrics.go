package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// Charge metrics
	ChargeAttemptsTotal *prometheus.CounterVec
	ChargeDuration      *prometheus.HistogramVec
	ChargeRetriesTotal  *prometheus.CounterVec
	InvoicesTotal       *prometheus.CounterVec

	// Batch metrics
	BatchRunsTotal   prometheus.Counter
	BatchDuration    prometheus.Histogram
	PendingInvoices  prometheus.Gauge
	LockedSkipsTotal prometheus.Counter

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec

	// Event metrics
	EventsPublishedTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics against the given registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := prometheus.WrapRegistererWith(nil, reg)

	m := &Metrics{
		ChargeAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "charge_attempts_total",
				Help:      "Total number of gateway charge attempts by outcome",
			},
			[]string{"gateway", "outcome"},
		),
		ChargeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "charge_duration_seconds",
				Help:      "Time spent driving one invoice to resolution, retries included",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"outcome"},
		),
		ChargeRetriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "charge_retries_total",
				Help:      "Total number of charge retries by reason",
			},
			[]string{"reason"},
		),
		InvoicesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invoices_total",
				Help:      "Total number of invoices reaching a final disposition",
			},
			[]string{"status"},
		),
		BatchRunsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batch_runs_total",
				Help:      "Total number of batch passes over pending invoices",
			},
		),
		BatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_duration_seconds",
				Help:      "Duration of one batch pass",
				Buckets:   []float64{1, 5, 15, 60, 300, 900, 3600},
			},
		),
		PendingInvoices: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pending_invoices",
				Help:      "Number of pending invoices seen by the last batch pass",
			},
		),
		LockedSkipsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "locked_skips_total",
				Help:      "Invoices skipped because a charge was already in flight",
			},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
		EventsPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Total number of billing events published",
			},
			[]string{"event_type", "status"},
		),
	}

	// Register all collectors
	factory.MustRegister(
		m.ChargeAttemptsTotal,
		m.ChargeDuration,
		m.ChargeRetriesTotal,
		m.InvoicesTotal,
		m.BatchRunsTotal,
		m.BatchDuration,
		m.PendingInvoices,
		m.LockedSkipsTotal,
		m.CircuitBreakerState,
		m.EventsPublishedTotal,
	)

	return m
}
