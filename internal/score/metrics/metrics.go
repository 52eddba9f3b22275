package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the score calculator's Prometheus metrics.
type Metrics struct {
	scoresComputed prometheus.Counter
	sourceFailures prometheus.Counter
	scoreValues    prometheus.Histogram
}

// New creates and registers the score metrics.
func New() *Metrics {
	return &Metrics{
		scoresComputed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustledger_scores_computed_total",
			Help: "Score calculations served.",
		}),
		sourceFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustledger_score_source_failures_total",
			Help: "Attestation source calls that failed.",
		}),
		scoreValues: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trustledger_score_value",
			Help:    "Distribution of served scores.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
}

func (m *Metrics) ObserveScore(score uint64) {
	if m == nil {
		return
	}
	m.scoresComputed.Inc()
	m.scoreValues.Observe(float64(score))
}

func (m *Metrics) ObserveSourceFailure() {
	if m == nil {
		return
	}
	m.sourceFailures.Inc()
}
