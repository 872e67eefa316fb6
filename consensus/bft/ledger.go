package bft

import (
	"github.com/onflow/chainbft/consensus/bft/model"
)

// Ledger speculatively executes vertices on top of the committed ledger state and commits
// ledger extensions. Implementations must be safe for concurrent use, as they are called from
// both the consensus runner and the ledger sync.
type Ledger interface {
	// Prepare executes the vertex on top of its ancestors `previous`, which are ordered from the
	// oldest to the direct parent and may start with already committed vertices.
	// Expected error returns during normal operations:
	//  * model.PrepareRejectedError if the vertex' parent state does not extend the committed
	//    state, for example because the ledger committed past it in the meantime.
	// All other errors are symptoms of a bug or a corrupted state.
	Prepare(previous []*model.ExecutedVertex, vertex *model.VertexWithHash) (*model.ExecutedVertex, error)

	// Commit durably commits the extension. Extensions at or below the committed state are ignored.
	// The vertex store state is nil for extensions which originate from ledger sync.
	// No errors are expected during normal operation.
	Commit(extension model.CommittedTransactionsWithProof, state *model.VertexStoreState) error
}
