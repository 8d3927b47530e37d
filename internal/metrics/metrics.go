// Package metrics exposes Prometheus instrumentation for calculations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	calculations *prometheus.HistogramVec
	operations   *prometheus.CounterVec
	paymentCodes *prometheus.CounterVec
	tierLookups  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "momo",
			Name:      "calculation_duration_seconds",
			Help:      "Duration of calculation batches by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"outcome"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "momo",
			Name:      "operations_total",
			Help:      "Processed operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		paymentCodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "momo",
			Name:      "payment_codes_total",
			Help:      "Generated payment codes by provider, country and route shape.",
		}, []string{"provider", "country", "shape"}),
		tierLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "momo",
			Name:      "tier_catalog_lookups_total",
			Help:      "Tier catalog lookups by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.calculations,
		m.operations,
		m.paymentCodes,
		m.tierLookups,
	)
	return m
}

// Registry returns the registry to expose on /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

func (m *Metrics) ObserveCalculation(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) ObserveOperation(name, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(name, outcome).Inc()
}

// ObservePaymentCode counts a generated code. Unsupported pairs share one
// label set so arbitrary input cannot grow the series count.
func (m *Metrics) ObservePaymentCode(provider, country, shape string) {
	if m == nil {
		return
	}
	if shape == "unsupported" {
		provider, country = "other", "other"
	}
	m.paymentCodes.WithLabelValues(provider, country, shape).Inc()
}

// ObserveTierLookup records a catalog result: hit, miss, failed, fallback.
func (m *Metrics) ObserveTierLookup(result string) {
	if m == nil {
		return
	}
	m.tierLookups.WithLabelValues(result).Inc()
}
