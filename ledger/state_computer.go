package ledger

import (
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
)

// RoundDetails describes the round a vertex is executed in.
type RoundDetails struct {
	Epoch                         uint64
	Round                         model.Round
	IsFallback                    bool
	Proposer                      *model.ValidatorID
	ConsensusParentRoundTimestamp int64
	ProposerTimestamp             int64
}

// RoundDetailsFromVertex reads the round details from the vertex.
func RoundDetailsFromVertex(v *model.VertexWithHash) RoundDetails {
	return RoundDetails{
		Epoch:                         v.Vertex.Epoch(),
		Round:                         v.Round(),
		IsFallback:                    v.Vertex.IsFallback,
		Proposer:                      v.Vertex.Proposer,
		ConsensusParentRoundTimestamp: v.Vertex.QCToParent.Timestamp(),
		ProposerTimestamp:             v.Vertex.ProposerTimestamp,
	}
}

// StateComputerResult is the outcome of speculatively executing the transactions of a vertex.
type StateComputerResult struct {
	Successful [][]byte
	Failed     [][]byte
	// NextEpoch is set if executing the vertex ends the epoch.
	NextEpoch *model.NextEpoch
	StateHash hash.Hash
}

// StateComputer executes transactions against the application state.
type StateComputer interface {
	// Prepare speculatively executes the transactions on top of the committed state, extended
	// by the transactions of the `previous` vertices.
	// No errors are expected during normal operation.
	Prepare(committedAccumulator hash.Hash, previous []*model.ExecutedVertex, transactions [][]byte, round RoundDetails) (*StateComputerResult, error)

	// Commit durably applies the verified extension. The vertex store state is nil for
	// extensions from ledger sync.
	// No errors are expected during normal operation.
	Commit(extension model.CommittedTransactionsWithProof, state *model.VertexStoreState) error
}
