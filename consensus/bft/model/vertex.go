package model

import (
	"fmt"
	"time"

	"github.com/onflow/chainbft/model/hash"
)

// Vertex is a proposed block of the speculative vertex DAG. It is immutable once created
// and identified by its content hash.
type Vertex struct {
	QCToParent   QuorumCertificate
	Round        Round
	Transactions [][]byte
	Proposer     *ValidatorID
	// Fallback vertices are created locally by validators which did not receive a valid
	// proposal for the round. They carry no transactions, so independently created
	// fallback vertices are equal and can still form a QC.
	IsFallback        bool
	ProposerTimestamp int64
}

// NewVertex creates a regular proposal vertex. Round zero is reserved for initial epoch vertices.
func NewVertex(parentQC QuorumCertificate, round Round, transactions [][]byte, proposer ValidatorID, proposerTimestamp int64) (*Vertex, error) {
	if round.IsGenesis() {
		return nil, fmt.Errorf("only the initial epoch vertex can have round %d", GenesisRound)
	}
	return &Vertex{
		QCToParent:        parentQC,
		Round:             round,
		Transactions:      transactions,
		Proposer:          &proposer,
		ProposerTimestamp: proposerTimestamp,
	}, nil
}

// NewFallbackVertex reuses the parent's proposer timestamp so that all validators creating
// it agree on its content.
func NewFallbackVertex(parentQC QuorumCertificate, round Round, proposer ValidatorID) *Vertex {
	return &Vertex{
		QCToParent:        parentQC,
		Round:             round,
		Proposer:          &proposer,
		IsFallback:        true,
		ProposerTimestamp: parentQC.ProposedHeader().Ledger.ProposerTimestamp,
	}
}

// NewInitialEpochVertex creates the root vertex of an epoch from the ledger header that ended
// the previous epoch.
func NewInitialEpochVertex(ledger LedgerHeader) *Vertex {
	header := HeaderOfGenesisAncestor(ledger)
	committed := header
	return &Vertex{
		QCToParent:        QuorumCertificate{VoteData: VoteData{Proposed: header, Parent: header, Committed: &committed}},
		Round:             GenesisRound,
		ProposerTimestamp: ledger.ProposerTimestamp,
	}
}

// WithID computes the content hash of the vertex.
func (v *Vertex) WithID(hasher hash.Hasher) *VertexWithHash {
	return &VertexWithHash{Vertex: v, Hash: hasher.HashEncoded(v)}
}

func (v *Vertex) ParentHeader() Header {
	return v.QCToParent.ProposedHeader()
}

func (v *Vertex) GrandParentHeader() Header {
	return v.QCToParent.ParentHeader()
}

func (v *Vertex) ParentVertexID() hash.Hash {
	return v.ParentHeader().VertexID
}

// Epoch of the vertex. The parent of an initial epoch vertex belongs to the previous epoch.
func (v *Vertex) Epoch() uint64 {
	epoch := v.ParentHeader().Ledger.Epoch
	if v.Round.IsGenesis() {
		return epoch + 1
	}
	return epoch
}

func (v *Vertex) TouchesGenesis() bool {
	return v.Round.IsGenesis() || v.ParentHeader().Round.IsGenesis() || v.GrandParentHeader().Round.IsGenesis()
}

// HasDirectParent is true if the parent was proposed in the immediately preceding round.
func (v *Vertex) HasDirectParent() bool {
	return v.Round == v.ParentHeader().Round.Next()
}

func (v *Vertex) ParentHasDirectParent() bool {
	return v.ParentHeader().Round == v.GrandParentHeader().Round.Next()
}

func (v *Vertex) String() string {
	return fmt.Sprintf("Vertex{round=%d qc=%s timestamp=%d txns=%d fallback=%t}",
		v.Round, &v.QCToParent, v.ProposerTimestamp, len(v.Transactions), v.IsFallback)
}

// VertexWithHash is a vertex together with its content hash.
type VertexWithHash struct {
	Vertex *Vertex
	Hash   hash.Hash
}

func (v *VertexWithHash) Round() Round {
	return v.Vertex.Round
}

func (v *VertexWithHash) ParentVertexID() hash.Hash {
	return v.Vertex.ParentVertexID()
}

func (v *VertexWithHash) String() string {
	return fmt.Sprintf("%s{hash=%s}", v.Vertex, v.Hash)
}

// ExecutedVertex is a vertex which was speculatively executed on top of its ancestors.
type ExecutedVertex struct {
	VertexWithHash *VertexWithHash
	LedgerHeader   LedgerHeader
	Successful     [][]byte
	Failed         [][]byte
	ExecutedAt     time.Time
}

func (e *ExecutedVertex) VertexHash() hash.Hash {
	return e.VertexWithHash.Hash
}

func (e *ExecutedVertex) Vertex() *Vertex {
	return e.VertexWithHash.Vertex
}

func (e *ExecutedVertex) ParentID() hash.Hash {
	return e.VertexWithHash.ParentVertexID()
}

func (e *ExecutedVertex) Round() Round {
	return e.VertexWithHash.Round()
}

// Header is the header validators vote for after executing the vertex.
func (e *ExecutedVertex) Header() Header {
	return Header{Round: e.Round(), VertexID: e.VertexHash(), Ledger: e.LedgerHeader}
}

// VertexChain is an ordered chain of vertices, each one the parent of the next.
type VertexChain struct {
	Vertices []*VertexWithHash
}
