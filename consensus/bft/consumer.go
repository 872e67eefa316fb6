package bft

import (
	"github.com/onflow/chainbft/consensus/bft/model"
)

// VertexStoreConsumer consumes the outward events of the vertex store. Consumers are called
// synchronously, in the order the events were produced.
// All errors returned are unexpected and fatal.
type VertexStoreConsumer interface {
	// OnVertexInserted is called after a vertex was executed and inserted.
	OnVertexInserted(update model.BFTInsertUpdate) error
	// OnRebuild is called after the store was rebuilt from a snapshot.
	OnRebuild(update model.BFTRebuildUpdate) error
	// OnCommitted is called after vertices were committed.
	OnCommitted(update model.BFTCommittedUpdate) error
	// OnHighQCUpdate is called after a QC or TC improved the high QC without committing anything.
	OnHighQCUpdate(update model.BFTHighQCUpdate) error
}
