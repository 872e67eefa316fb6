package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onflow/chainbft/module"
)

type SafetyRulesCollector struct {
	votesCreated        prometheus.Counter
	votesRejected       *prometheus.CounterVec
	timeoutVotesCreated prometheus.Counter
	verifications       *prometheus.CounterVec
	verificationTime    *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
}

var _ module.SafetyRulesMetrics = (*SafetyRulesCollector)(nil)

func NewSafetyRulesCollector(registerer prometheus.Registerer) *SafetyRulesCollector {
	factory := promauto.With(registerer)
	return &SafetyRulesCollector{
		votesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name:      "votes_created_total",
			Namespace: namespaceConsensus,
			Subsystem: subsystemSafetyRules,
			Help:      "number of votes created and persisted",
		}),
		votesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "votes_rejected_total",
			Namespace: namespaceConsensus,
			Subsystem: subsystemSafetyRules,
			Help:      "number of votes refused by a safety rule",
		}, []string{LabelRule}),
		timeoutVotesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name:      "timeout_votes_created_total",
			Namespace: namespaceConsensus,
			Subsystem: subsystemSafetyRules,
			Help:      "number of votes augmented with a timeout signature",
		}),
		verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "certificate_verifications_total",
			Namespace: namespaceConsensus,
			Subsystem: subsystemSafetyRules,
			Help:      "number of certificates verified against the validator set",
		}, []string{LabelKind, LabelResult}),
		verificationTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "certificate_verification_seconds",
			Namespace: namespaceConsensus,
			Subsystem: subsystemSafetyRules,
			Help:      "duration of certificate verification in seconds",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}, []string{LabelKind}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "verification_cache_hits_total",
			Namespace: namespaceConsensus,
			Subsystem: subsystemSafetyRules,
			Help:      "number of certificate verifications answered from the cache",
		}, []string{LabelKind}),
	}
}

func (c *SafetyRulesCollector) VoteCreated() {
	c.votesCreated.Inc()
}

func (c *SafetyRulesCollector) VoteRejected(rule string) {
	c.votesRejected.WithLabelValues(rule).Inc()
}

func (c *SafetyRulesCollector) TimeoutVoteCreated() {
	c.timeoutVotesCreated.Inc()
}

func (c *SafetyRulesCollector) CertificateVerified(kind string, valid bool, duration time.Duration) {
	result := ResultInvalid
	if valid {
		result = ResultValid
	}
	c.verifications.WithLabelValues(kind, result).Inc()
	c.verificationTime.WithLabelValues(kind).Observe(duration.Seconds())
}

func (c *SafetyRulesCollector) VerificationCacheHit(kind string) {
	c.cacheHits.WithLabelValues(kind).Inc()
}
