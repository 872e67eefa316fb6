package model

import (
	"fmt"

	"github.com/onflow/chainbft/model/hash"
)

// Header identifies a vertex together with the ledger state it leads to.
type Header struct {
	Round    Round
	VertexID hash.Hash
	Ledger   LedgerHeader
}

// HeaderOfGenesisAncestor is the header referenced by the parent QC of an epoch's initial vertex.
func HeaderOfGenesisAncestor(ledger LedgerHeader) Header {
	return Header{Round: GenesisRound, VertexID: hash.ZeroHash, Ledger: ledger}
}

func (h Header) Equal(other Header) bool {
	return h.Round == other.Round && h.VertexID == other.VertexID && h.Ledger.Equal(other.Ledger)
}

func (h Header) String() string {
	return fmt.Sprintf("Header{round=%d vertex=%s epoch=%d}", h.Round, h.VertexID, h.Ledger.Epoch)
}

// VoteData is the content validators sign when voting for a vertex.
type VoteData struct {
	Proposed  Header
	Parent    Header
	Committed *Header
}

func (d VoteData) CommittedLedgerHeader() *LedgerHeader {
	if d.Committed == nil {
		return nil
	}
	ledger := d.Committed.Ledger
	return &ledger
}

// ToConsensusVoteHash returns the hash a validator signs when voting with the given timestamp.
func (d VoteData) ToConsensusVoteHash(hasher hash.Hasher, timestamp int64) hash.Hash {
	return ConsensusVoteHash(hasher, hasher.HashEncoded(d), d.CommittedLedgerHeader(), timestamp)
}

type consensusVoteDigest struct {
	VoteDataHash hash.Hash
	Committed    *LedgerHeader
	Timestamp    int64
}

// ConsensusVoteHash binds the vote data hash to the committed ledger header and the signer's timestamp.
func ConsensusVoteHash(hasher hash.Hasher, voteDataHash hash.Hash, committed *LedgerHeader, timestamp int64) hash.Hash {
	return hasher.HashEncoded(consensusVoteDigest{
		VoteDataHash: voteDataHash,
		Committed:    committed,
		Timestamp:    timestamp,
	})
}

// NewVoteData creates the vote data for a vertex executed to the given header. The
// grandparent is committed if voting for the vertex creates three QCs for consecutive rounds.
func NewVoteData(vertex *Vertex, proposed Header) VoteData {
	data := VoteData{Proposed: proposed, Parent: vertex.ParentHeader()}
	if vertex.TouchesGenesis() || !vertex.HasDirectParent() || !vertex.ParentHasDirectParent() {
		return data
	}
	committed := vertex.GrandParentHeader()
	data.Committed = &committed
	return data
}
