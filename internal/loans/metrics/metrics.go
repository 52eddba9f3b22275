package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the loan ledger's Prometheus metrics.
type Metrics struct {
	loansAdded        prometheus.Counter
	loansPaid         prometheus.Counter
	paymentRejections *prometheus.CounterVec
	complianceQueries prometheus.Counter
	complianceValues  prometheus.Histogram
}

// New creates and registers the loan ledger metrics.
func New() *Metrics {
	return &Metrics{
		loansAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustledger_loans_added_total",
			Help: "Loan records appended to the ledger.",
		}),
		loansPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustledger_loans_paid_total",
			Help: "Loan records transitioned to paid.",
		}),
		paymentRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustledger_loan_payment_rejections_total",
			Help: "Rejected mark-paid attempts, by reason.",
		}, []string{"reason"}),
		complianceQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustledger_compliance_queries_total",
			Help: "Compliance percentage queries served.",
		}),
		complianceValues: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trustledger_compliance_percentage",
			Help:    "Distribution of served compliance percentages.",
			Buckets: []float64{0, 10, 25, 50, 66, 75, 90, 100},
		}),
	}
}

func (m *Metrics) ObserveLoanAdded() {
	if m == nil {
		return
	}
	m.loansAdded.Inc()
}

func (m *Metrics) ObserveLoanPaid() {
	if m == nil {
		return
	}
	m.loansPaid.Inc()
}

func (m *Metrics) ObservePaymentRejection(reason string) {
	if m == nil {
		return
	}
	m.paymentRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveCompliance(percentage uint64) {
	if m == nil {
		return
	}
	m.complianceQueries.Inc()
	m.complianceValues.Observe(float64(percentage))
}
