// Package metrics exposes application-level prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics captures usage ledger and alert engine health signals.
type Metrics struct {
	registry        *prometheus.Registry
	usageRecords    *prometheus.CounterVec
	alertsTriggered *prometheus.CounterVec
}

// New registers the costwatch instruments on a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the instruments on the given registry.
// Tests inject their own registry to assert on counter values.
func NewWithRegistry(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		usageRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "costwatch",
			Name:      "usage_records_total",
			Help:      "Usage entries recorded, by integration.",
		}, []string{"integration_id"}),
		alertsTriggered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "costwatch",
			Name:      "alerts_triggered_total",
			Help:      "Alerts flipped to triggered, by alert type.",
		}, []string{"type"}),
	}

	registry.MustRegister(m.usageRecords, m.alertsTriggered)
	return m
}

// Registry returns the backing registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IncUsageRecord counts one recorded usage entry.
func (m *Metrics) IncUsageRecord(integrationID string) {
	if m == nil {
		return
	}
	m.usageRecords.WithLabelValues(integrationID).Inc()
}

// IncAlertTriggered counts one false-to-true trigger flip.
func (m *Metrics) IncAlertTriggered(alertType string) {
	if m == nil {
		return
	}
	m.alertsTriggered.WithLabelValues(alertType).Inc()
}
