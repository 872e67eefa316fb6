package model

import (
	"fmt"

	"github.com/onflow/chainbft/model/hash"
)

// ProposerElection elects the leader of each round of an epoch.
type ProposerElection interface {
	Proposer(round Round) ValidatorID
}

// BFTConfiguration is everything needed to start consensus in an epoch.
type BFTConfiguration struct {
	ProposerElection ProposerElection
	ValidatorSet     *ValidatorSet
	VertexStoreState *VertexStoreState
}

// EpochChange is a ledger proof ending an epoch together with the next epoch's configuration.
type EpochChange struct {
	Proof         LedgerProof
	Epoch         uint64
	Configuration BFTConfiguration
}

// NextEpoch is the epoch this change starts.
func (e *EpochChange) NextEpoch() uint64 {
	return e.Epoch
}

// GenesisProof is the proof of the next epoch's initial vertex.
func (e *EpochChange) GenesisProof() LedgerProof {
	return e.Configuration.VertexStoreState.RootHeader()
}

func (e *EpochChange) String() string {
	return fmt.Sprintf("EpochChange{next_epoch=%d proof=%s}", e.Epoch, e.Proof.Header)
}

// LedgerUpdate is emitted by the ledger after each commit.
type LedgerUpdate struct {
	Proof       LedgerProof
	EpochChange *EpochChange
}

// RoundUpdate announces a new round to the epoch's processors.
type RoundUpdate struct {
	Round      Round
	HighQC     HighQC
	Leader     ValidatorID
	NextLeader ValidatorID
}

// Epoched tags an event with the epoch it was scheduled in.
type Epoched[T any] struct {
	Epoch uint64
	Event T
}

// ScheduledLocalTimeout fires when the pacemaker's round timer expires.
type ScheduledLocalTimeout struct {
	RoundUpdate RoundUpdate
	Count       int
	MillisDelay int64
}

func (t ScheduledLocalTimeout) Round() Round {
	return t.RoundUpdate.Round
}

// VertexRequestTimeout fires when a GetVerticesRequest was not answered in time.
type VertexRequestTimeout struct {
	VertexID hash.Hash
	Count    int
}

// ProposalRejected reports that a proposal of the current round was rejected.
type ProposalRejected struct {
	Round  Round
	Reason string
}

// LedgerStatusUpdate advertises a node's committed ledger state to peers.
type LedgerStatusUpdate struct {
	Proof LedgerProof
}

// GetVerticesRequest asks a peer for `Count` vertices, starting at VertexID and following parents.
type GetVerticesRequest struct {
	VertexID hash.Hash
	Count    int
}

type GetVerticesResponse struct {
	Vertices []*Vertex
}

// GetVerticesErrorResponse is sent when the requested vertices are unknown.
type GetVerticesErrorResponse struct {
	HighQC               HighQC
	LatestCommittedProof LedgerProof
	Request              GetVerticesRequest
}

// TimeoutQuorumDelayedResolution fires when a timeout quorum formed but its resolution was
// delayed to give the round's proposal a chance to still form a QC.
type TimeoutQuorumDelayedResolution struct {
	Round       Round
	MillisDelay int64
}
