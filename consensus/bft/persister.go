package bft

import (
	"github.com/onflow/chainbft/consensus/bft/model"
)

// PersistentSafetyStateStore durably stores the local validator's safety state. The stored copy
// is the source of truth across restarts.
type PersistentSafetyStateStore interface {
	// CommitState persists the state. It returns only once the state is durable.
	// No errors are expected during normal operation.
	CommitState(state model.SafetyState) error

	// Get returns the last committed state.
	// Expected error returns during normal operations:
	//  * storage.ErrNotFound if no state was committed yet
	Get() (*model.SafetyState, error)
}

// VertexStoreCheckpointer persists the encoded vertex store snapshot used for crash recovery.
type VertexStoreCheckpointer interface {
	// Save replaces the stored snapshot.
	// No errors are expected during normal operation.
	Save(serialized []byte) error

	// Load returns the stored snapshot.
	// Expected error returns during normal operations:
	//  * storage.ErrNotFound if no snapshot was stored yet
	Load() (*model.SerializedVertexStoreState, error)
}
