package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the attestation ledger's Prometheus metrics.
type Metrics struct {
	submitted *prometheus.CounterVec
	reads     prometheus.Counter
}

// New creates and registers the attestation metrics.
func New() *Metrics {
	return &Metrics{
		submitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustledger_attestations_submitted_total",
			Help: "Attestation submissions, by outcome.",
		}, []string{"outcome"}),
		reads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustledger_attestation_reads_total",
			Help: "Attestation list reads served.",
		}),
	}
}

func (m *Metrics) ObserveSubmit(accepted bool) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	m.submitted.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRead() {
	if m == nil {
		return
	}
	m.reads.Inc()
}
