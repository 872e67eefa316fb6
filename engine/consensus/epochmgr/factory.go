package epochmgr

import (
	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/consensus/bft/safetyrules"
	"github.com/onflow/chainbft/consensus/bft/vertexstore"
)

// EpochContext is everything the components of one epoch are built from. SafetyRules and
// VertexStore are created by the epoch manager and owned by the epoch.
type EpochContext struct {
	Self               model.ValidatorID
	Epoch              uint64
	Configuration      model.BFTConfiguration
	InitialRoundUpdate model.RoundUpdate
	SafetyRules        *safetyrules.SafetyRules
	VertexStore        *vertexstore.Adapter
	// LedgerHeader is the more recent of the vertex store root and the committed ledger state.
	LedgerHeader model.LedgerHeader
}

// EpochComponentsFactory creates the pacemaker driven BFT event processor and the vertex sync
// of an epoch.
type EpochComponentsFactory interface {
	// Create builds the epoch's processors. They must not be started yet.
	// No errors are expected during normal operation.
	Create(epoch EpochContext) (bft.EventProcessor, bft.SyncProcessor, error)
}
