package metrics

import (
	"time"

	"github.com/onflow/chainbft/module"
)

type NoopCollector struct{}

var (
	_ module.VertexStoreMetrics  = (*NoopCollector)(nil)
	_ module.SafetyRulesMetrics  = (*NoopCollector)(nil)
	_ module.EpochManagerMetrics = (*NoopCollector)(nil)
	_ module.LedgerMetrics       = (*NoopCollector)(nil)
	_ module.StorageMetrics      = (*NoopCollector)(nil)
	_ module.CacheMetrics        = (*NoopCollector)(nil)
	_ module.RunnerMetrics       = (*NoopCollector)(nil)
)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) VertexCount(int)                                 {}
func (nc *NoopCollector) SerializedSize(int)                              {}
func (nc *NoopCollector) ForkInserted()                                   {}
func (nc *NoopCollector) IndirectParentInserted()                         {}
func (nc *NoopCollector) Rebuilt()                                        {}
func (nc *NoopCollector) SizeLimitExceeded()                              {}
func (nc *NoopCollector) VerticesCommitted(int)                           {}
func (nc *NoopCollector) VoteCreated()                                    {}
func (nc *NoopCollector) VoteRejected(string)                             {}
func (nc *NoopCollector) TimeoutVoteCreated()                             {}
func (nc *NoopCollector) CertificateVerified(string, bool, time.Duration) {}
func (nc *NoopCollector) VerificationCacheHit(string)                     {}
func (nc *NoopCollector) ConsensusEventReceived()                         {}
func (nc *NoopCollector) ConsensusEventQueued()                           {}
func (nc *NoopCollector) ConsensusEventDropped(string)                    {}
func (nc *NoopCollector) QueuedEvents(int)                                {}
func (nc *NoopCollector) EpochTransition(uint64)                          {}
func (nc *NoopCollector) PrepareDuration(time.Duration)                   {}
func (nc *NoopCollector) CommitDuration(time.Duration)                    {}
func (nc *NoopCollector) TransactionsCommitted(string, int)               {}
func (nc *NoopCollector) StateVersion(uint64)                             {}
func (nc *NoopCollector) RetryOnConflict()                                {}
func (nc *NoopCollector) InboxLength(int)                                 {}
func (nc *NoopCollector) EventProcessed(string, time.Duration)            {}
func (nc *NoopCollector) EventDropped(string)                             {}
func (nc *NoopCollector) CacheEntries(string, uint)                       {}
func (nc *NoopCollector) CacheHit(string)                                 {}
func (nc *NoopCollector) CacheMiss(string)                                {}
