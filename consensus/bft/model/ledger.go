package model

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/onflow/chainbft/model/hash"
)

// AccumulatorState commits to the ordered history of executed transactions.
type AccumulatorState struct {
	StateVersion    uint64
	AccumulatorHash hash.Hash
}

// NextEpoch is attached to the ledger header that ends an epoch.
type NextEpoch struct {
	Epoch      uint64
	Validators []Validator
}

// LedgerHeader is the ledger state a vertex leads to once executed.
type LedgerHeader struct {
	Epoch       uint64
	Round       Round
	Accumulator AccumulatorState
	StateHash   hash.Hash
	// timestamps are milliseconds since Unix epoch
	ConsensusParentRoundTimestamp int64
	ProposerTimestamp             int64
	NextEpoch                     *NextEpoch
}

func (h LedgerHeader) IsEndOfEpoch() bool {
	return h.NextEpoch != nil
}

func (h LedgerHeader) StateVersion() uint64 {
	return h.Accumulator.StateVersion
}

// WithRoundAndTimestamps returns a copy of the header for the given round.
func (h LedgerHeader) WithRoundAndTimestamps(round Round, consensusParentRoundTimestamp, proposerTimestamp int64) LedgerHeader {
	h.Round = round
	h.ConsensusParentRoundTimestamp = consensusParentRoundTimestamp
	h.ProposerTimestamp = proposerTimestamp
	return h
}

// Equal compares the headers by value.
func (h LedgerHeader) Equal(other LedgerHeader) bool {
	if h.Epoch != other.Epoch ||
		h.Round != other.Round ||
		h.Accumulator != other.Accumulator ||
		h.StateHash != other.StateHash ||
		h.ConsensusParentRoundTimestamp != other.ConsensusParentRoundTimestamp ||
		h.ProposerTimestamp != other.ProposerTimestamp {
		return false
	}
	if h.NextEpoch == nil || other.NextEpoch == nil {
		return h.NextEpoch == other.NextEpoch
	}
	return h.NextEpoch.Epoch == other.NextEpoch.Epoch && slices.Equal(h.NextEpoch.Validators, other.NextEpoch.Validators)
}

func (h LedgerHeader) String() string {
	return fmt.Sprintf("LedgerHeader{epoch=%d round=%d version=%d end_of_epoch=%t}",
		h.Epoch, h.Round, h.Accumulator.StateVersion, h.IsEndOfEpoch())
}

// LedgerProof is a ledger header together with the certificate which committed it. A proof
// without signatures originates from an epoch's initial QC.
type LedgerProof struct {
	Header       LedgerHeader
	VoteDataHash hash.Hash
	Signatures   TimestampedSignatures
}

func (p LedgerProof) IsInitialEpochProof() bool {
	return p.Signatures.Count() == 0
}

func (p LedgerProof) Epoch() uint64 {
	return p.Header.Epoch
}

func (p LedgerProof) StateVersion() uint64 {
	return p.Header.StateVersion()
}

// NextEpoch returns the epoch started by this proof, if it ends an epoch.
func (p LedgerProof) NextEpoch() (*NextEpoch, bool) {
	return p.Header.NextEpoch, p.Header.NextEpoch != nil
}

// CompareLedgerProofs orders proofs by epoch, state version and round. A proof which ends
// an epoch is ordered after every other proof of the same epoch and version.
func CompareLedgerProofs(a, b LedgerProof) int {
	switch {
	case a.Header.Epoch != b.Header.Epoch:
		return compareUint64(a.Header.Epoch, b.Header.Epoch)
	case a.StateVersion() != b.StateVersion():
		return compareUint64(a.StateVersion(), b.StateVersion())
	case a.Header.IsEndOfEpoch() != b.Header.IsEndOfEpoch():
		if a.Header.IsEndOfEpoch() {
			return 1
		}
		return -1
	default:
		return compareUint64(uint64(a.Header.Round), uint64(b.Header.Round))
	}
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CommittedTransactionsWithProof is an extension of the committed ledger.
type CommittedTransactionsWithProof struct {
	Transactions [][]byte
	Proof        LedgerProof
}
