package model

import (
	"bytes"
	"fmt"
)

// ConsensusEvent is a consensus message routed by epoch. Implemented by *Proposal and *Vote.
type ConsensusEvent interface {
	Epoch() uint64
	Round() Round
	consensusEvent()
}

// Vote is a validator's signed vote for a vertex. A vote becomes a timeout vote once a
// timeout signature is attached.
type Vote struct {
	Author           ValidatorID
	VoteData         VoteData
	Timestamp        int64
	Signature        []byte
	HighQC           HighQC
	TimeoutSignature []byte
}

var _ ConsensusEvent = (*Vote)(nil)

func (v *Vote) consensusEvent() {}

func (v *Vote) Round() Round {
	return v.VoteData.Proposed.Round
}

func (v *Vote) Epoch() uint64 {
	return v.VoteData.Proposed.Ledger.Epoch
}

func (v *Vote) IsTimeout() bool {
	return len(v.TimeoutSignature) > 0
}

// SameVote reports whether both votes are the same signed vote, ignoring the timeout
// signature.
func (v *Vote) SameVote(other *Vote) bool {
	return v.Author == other.Author &&
		v.Round() == other.Round() &&
		v.VoteData.Proposed.VertexID == other.VoteData.Proposed.VertexID &&
		v.Timestamp == other.Timestamp &&
		bytes.Equal(v.Signature, other.Signature)
}

// WithTimeoutSignature returns a copy of the vote carrying the timeout signature.
func (v *Vote) WithTimeoutSignature(signature []byte) *Vote {
	augmented := *v
	augmented.TimeoutSignature = signature
	return &augmented
}

func (v *Vote) String() string {
	return fmt.Sprintf("Vote{author=%s epoch=%d round=%d vertex=%s timeout=%t}",
		v.Author.ShortString(), v.Epoch(), v.Round(), v.VoteData.Proposed.VertexID, v.IsTimeout())
}

// Proposal is a vertex signed by its proposer.
type Proposal struct {
	Vertex             *Vertex
	HighestCommittedQC QuorumCertificate
	Signature          []byte
	HighestTC          *TimeoutCertificate
}

var _ ConsensusEvent = (*Proposal)(nil)

func (p *Proposal) consensusEvent() {}

func (p *Proposal) Round() Round {
	return p.Vertex.Round
}

func (p *Proposal) Epoch() uint64 {
	return p.Vertex.Epoch()
}

func (p *Proposal) String() string {
	return fmt.Sprintf("Proposal{epoch=%d round=%d}", p.Epoch(), p.Round())
}
