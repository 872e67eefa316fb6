package helper

import (
	"sync"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/ledger"
	"github.com/onflow/chainbft/model/hash"
)

// Execute deterministically executes the vertex on top of the parent ledger header. Every
// transaction succeeds and is accumulated like ledger.StateComputerLedger does. A vertex on
// top of an epoch ending header keeps the parent header.
func Execute(hasher hash.Hasher, parent model.LedgerHeader, v *model.VertexWithHash) *model.ExecutedVertex {
	if parent.IsEndOfEpoch() {
		return &model.ExecutedVertex{VertexWithHash: v, LedgerHeader: parent}
	}
	header := parent.WithRoundAndTimestamps(v.Round(), v.Vertex.QCToParent.Timestamp(), v.Vertex.ProposerTimestamp)
	header.Accumulator = ledger.NewAccumulator(hasher).AccumulateTransactions(parent.Accumulator, v.Vertex.Transactions)
	return &model.ExecutedVertex{
		VertexWithHash: v,
		LedgerHeader:   header,
		Successful:     v.Vertex.Transactions,
	}
}

// Ledger executes vertices with Execute. Vertices can be marked as rejected, in which case
// Prepare returns a model.PrepareRejectedError for them. Concurrency safe.
type Ledger struct {
	hasher hash.Hasher

	mu        sync.Mutex
	rejected  map[hash.Hash]struct{}
	prepared  map[hash.Hash]int
	committed []model.CommittedTransactionsWithProof
}

var _ bft.Ledger = (*Ledger)(nil)

func NewLedger(hasher hash.Hasher) *Ledger {
	return &Ledger{
		hasher:   hasher,
		rejected: make(map[hash.Hash]struct{}),
		prepared: make(map[hash.Hash]int),
	}
}

func (l *Ledger) Prepare(previous []*model.ExecutedVertex, vertex *model.VertexWithHash) (*model.ExecutedVertex, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.rejected[vertex.Hash]; ok {
		return nil, model.PrepareRejectedError{Reason: "rejected by test ledger"}
	}
	l.prepared[vertex.Hash]++

	parent := vertex.Vertex.ParentHeader().Ledger
	if len(previous) > 0 {
		parent = previous[len(previous)-1].LedgerHeader
	}
	return Execute(l.hasher, parent, vertex), nil
}

func (l *Ledger) Commit(extension model.CommittedTransactionsWithProof, _ *model.VertexStoreState) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.committed = append(l.committed, extension)
	return nil
}

// Reject makes every future Prepare of the vertex fail.
func (l *Ledger) Reject(id hash.Hash) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rejected[id] = struct{}{}
}

// PrepareCount returns how often the vertex was prepared successfully.
func (l *Ledger) PrepareCount(id hash.Hash) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.prepared[id]
}

func (l *Ledger) Committed() []model.CommittedTransactionsWithProof {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.CommittedTransactionsWithProof, len(l.committed))
	copy(out, l.committed)
	return out
}
