package ledger

import (
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
)

// Accumulator extends the accumulator state with the payload hash of every executed
// transaction, so that equal accumulator states imply an equal transaction history.
type Accumulator struct {
	hasher hash.Hasher
}

func NewAccumulator(hasher hash.Hasher) *Accumulator {
	return &Accumulator{
		hasher: hasher,
	}
}

// PayloadHash is the hash a transaction is accumulated with.
func (a *Accumulator) PayloadHash(transaction []byte) hash.Hash {
	return a.hasher.HashBytes(transaction)
}

// Accumulate appends one payload to the state.
func (a *Accumulator) Accumulate(parent model.AccumulatorState, payloadHash hash.Hash) model.AccumulatorState {
	concatenated := make([]byte, 0, 2*hash.HashLen)
	concatenated = append(concatenated, parent.AccumulatorHash[:]...)
	concatenated = append(concatenated, payloadHash[:]...)
	return model.AccumulatorState{
		StateVersion:    parent.StateVersion + 1,
		AccumulatorHash: a.hasher.HashBytes(concatenated),
	}
}

// AccumulateTransactions appends all transactions to the state.
func (a *Accumulator) AccumulateTransactions(parent model.AccumulatorState, transactions [][]byte) model.AccumulatorState {
	state := parent
	for _, tx := range transactions {
		state = a.Accumulate(state, a.PayloadHash(tx))
	}
	return state
}

// Verify returns whether accumulating the payloads on top of start results in end.
func (a *Accumulator) Verify(start model.AccumulatorState, payloadHashes []hash.Hash, end model.AccumulatorState) bool {
	state := start
	for _, h := range payloadHashes {
		state = a.Accumulate(state, h)
	}
	return state == end
}

// VerifyAndGetExtension returns the transactions which extend start to end. The transactions
// end at `end` but may begin before `start`, in which case the already accumulated prefix is
// skipped. Returns false if the transactions do not lead from start to end.
func (a *Accumulator) VerifyAndGetExtension(start model.AccumulatorState, transactions [][]byte, end model.AccumulatorState) ([][]byte, bool) {
	if start.StateVersion > end.StateVersion {
		return nil, false
	}
	if start == end {
		return [][]byte{}, true
	}
	missing := end.StateVersion - start.StateVersion
	if missing > uint64(len(transactions)) {
		return nil, false
	}
	extension := transactions[uint64(len(transactions))-missing:]
	if a.AccumulateTransactions(start, extension) != end {
		return nil, false
	}
	return extension, true
}
