package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onflow/chainbft/module"
)

type LedgerCollector struct {
	prepareDuration       prometheus.Histogram
	commitDuration        prometheus.Histogram
	transactionsCommitted *prometheus.CounterVec
	stateVersion          prometheus.Gauge
}

var _ module.LedgerMetrics = (*LedgerCollector)(nil)

func NewLedgerCollector(registerer prometheus.Registerer) *LedgerCollector {
	factory := promauto.With(registerer)
	return &LedgerCollector{
		prepareDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:      "prepare_duration_seconds",
			Namespace: namespaceLedger,
			Subsystem: subsystemExecution,
			Help:      "time spent preparing vertices",
			Buckets:   prometheus.DefBuckets,
		}),
		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:      "commit_duration_seconds",
			Namespace: namespaceLedger,
			Subsystem: subsystemExecution,
			Help:      "time spent committing ledger extensions",
			Buckets:   prometheus.DefBuckets,
		}),
		transactionsCommitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "transactions_committed_total",
			Namespace: namespaceLedger,
			Subsystem: subsystemExecution,
			Help:      "number of committed transactions",
		}, []string{LabelOrigin}),
		stateVersion: factory.NewGauge(prometheus.GaugeOpts{
			Name:      "state_version",
			Namespace: namespaceLedger,
			Subsystem: subsystemExecution,
			Help:      "the committed state version",
		}),
	}
}

func (c *LedgerCollector) PrepareDuration(duration time.Duration) {
	c.prepareDuration.Observe(duration.Seconds())
}

func (c *LedgerCollector) CommitDuration(duration time.Duration) {
	c.commitDuration.Observe(duration.Seconds())
}

func (c *LedgerCollector) TransactionsCommitted(origin string, count int) {
	c.transactionsCommitted.WithLabelValues(origin).Add(float64(count))
}

func (c *LedgerCollector) StateVersion(version uint64) {
	c.stateVersion.Set(float64(version))
}
