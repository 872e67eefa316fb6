package epochmgr

import (
	"github.com/onflow/chainbft/consensus/bft/safetyrules"
	"github.com/onflow/chainbft/consensus/bft/synchronization"
	"github.com/onflow/chainbft/consensus/bft/vertexstore"
)

// DefaultMaxQueuedEvents bounds the consensus events held back for future epochs.
const DefaultMaxQueuedEvents = 10_000

// Config holds the tunables of the epoch manager and of the per-epoch components it creates.
type Config struct {
	// MaxQueuedEvents is the number of future epoch events queued across all epochs. Further
	// events are dropped until the queue is drained by an epoch change.
	MaxQueuedEvents int
	VertexStore     vertexstore.Config
	SafetyRules     safetyrules.Config
	Sync            synchronization.Config
}

func DefaultConfig() Config {
	return Config{
		MaxQueuedEvents: DefaultMaxQueuedEvents,
		VertexStore:     vertexstore.DefaultConfig(),
		SafetyRules:     safetyrules.DefaultConfig(),
		Sync:            *synchronization.DefaultConfig(),
	}
}
