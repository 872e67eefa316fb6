package module

import (
	"time"
)

// VertexStoreMetrics tracks the speculative vertex DAG of the current epoch.
type VertexStoreMetrics interface {
	// VertexCount reports the number of uncommitted vertices held by the store.
	VertexCount(count int)
	// SerializedSize reports the size of the encoded vertex store state in bytes.
	SerializedSize(bytes int)
	// ForkInserted is called when a vertex was inserted next to an existing sibling.
	ForkInserted()
	// IndirectParentInserted is called when a vertex was inserted whose parent is not from the preceding round.
	IndirectParentInserted()
	// Rebuilt is called after the store was successfully rebuilt from a snapshot.
	Rebuilt()
	// SizeLimitExceeded is called whenever an insert or a rebuild was refused due to the size limit.
	SizeLimitExceeded()
	// VerticesCommitted reports the number of vertices committed by a single QC.
	VerticesCommitted(count int)
}

// SafetyRulesMetrics tracks voting and certificate verification.
type SafetyRulesMetrics interface {
	// VoteCreated is called after a vote was created and persisted.
	VoteCreated()
	// VoteRejected is called when a vote was refused by a safety rule, labelled by the rule.
	VoteRejected(rule string)
	// TimeoutVoteCreated is called after a vote was augmented with a timeout signature.
	TimeoutVoteCreated()
	// CertificateVerified reports the outcome and duration of a certificate verification.
	CertificateVerified(kind string, valid bool, duration time.Duration)
	// VerificationCacheHit is called when a certificate verification was answered from the cache.
	VerificationCacheHit(kind string)
}

// EpochManagerMetrics tracks consensus event routing across epochs.
type EpochManagerMetrics interface {
	// ConsensusEventReceived is called for every consensus event dispatched to the current epoch.
	ConsensusEventReceived()
	// ConsensusEventQueued is called when an event of a future epoch was queued.
	ConsensusEventQueued()
	// ConsensusEventDropped is called when an event was dropped, labelled by the reason.
	ConsensusEventDropped(reason string)
	// QueuedEvents reports the number of events queued for future epochs.
	QueuedEvents(count int)
	// EpochTransition reports the epoch the node transitioned into.
	EpochTransition(epoch uint64)
}

// LedgerMetrics tracks speculative execution and commits.
type LedgerMetrics interface {
	// PrepareDuration reports the time spent preparing a vertex.
	PrepareDuration(duration time.Duration)
	// CommitDuration reports the time spent committing an extension.
	CommitDuration(duration time.Duration)
	// TransactionsCommitted reports transactions committed, labelled by origin (bft or sync).
	TransactionsCommitted(origin string, count int)
	// StateVersion reports the committed state version.
	StateVersion(version uint64)
}

// StorageMetrics tracks the badger storage layer.
type StorageMetrics interface {
	// RetryOnConflict is called whenever a badger transaction is retried due to a conflict.
	RetryOnConflict()
}

// CacheMetrics tracks the read caches in front of the database.
type CacheMetrics interface {
	// CacheEntries reports the number of entries held by the cache of the resource.
	CacheEntries(resource string, entries uint)
	// CacheHit is called when a resource was served from the cache.
	CacheHit(resource string)
	// CacheMiss is called when a resource had to be read from the database.
	CacheMiss(resource string)
}

// RunnerMetrics tracks the consensus runner's inbox.
type RunnerMetrics interface {
	// InboxLength reports the number of events waiting to be processed.
	InboxLength(length int)
	// EventProcessed reports the duration of processing one event, labelled by event type.
	EventProcessed(event string, duration time.Duration)
	// EventDropped is called when the inbox is full.
	EventDropped(event string)
}
