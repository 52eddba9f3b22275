package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the trust registry's Prometheus metrics.
type Metrics struct {
	trustChecks  *prometheus.CounterVec
	trustUpdates *prometheus.CounterVec
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
}

// New creates and registers the trust registry metrics.
func New() *Metrics {
	return &Metrics{
		trustChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustledger_trust_checks_total",
			Help: "Trust lookups served, by result.",
		}, []string{"result"}),
		trustUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustledger_trust_updates_total",
			Help: "Registry mutations, by action.",
		}, []string{"action"}),
		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustledger_trust_cache_hits_total",
			Help: "Trust lookups answered from the Redis cache.",
		}),
		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustledger_trust_cache_misses_total",
			Help: "Trust lookups that fell through to the backing store.",
		}),
	}
}

func (m *Metrics) ObserveCheck(trusted bool) {
	if m == nil {
		return
	}
	result := "untrusted"
	if trusted {
		result = "trusted"
	}
	m.trustChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveUpdate(trusted bool) {
	if m == nil {
		return
	}
	action := "revoked"
	if trusted {
		action = "granted"
	}
	m.trustUpdates.WithLabelValues(action).Inc()
}

func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) ObserveCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}
