package model

import (
	"fmt"

	"github.com/onflow/chainbft/model/hash"
)

// QuorumCertificate proves that a quorum of validators voted for the proposed vertex.
type QuorumCertificate struct {
	VoteData   VoteData
	Signatures TimestampedSignatures
}

// NewInitialEpochQC creates the signature-less QC of an epoch's initial vertex, whose
// proposed, parent and committed headers are all the initial vertex itself.
func NewInitialEpochQC(initial *VertexWithHash, ledger LedgerHeader) (*QuorumCertificate, error) {
	if !initial.Vertex.Round.IsGenesis() {
		return nil, fmt.Errorf("vertex at round %d is not an initial epoch vertex", initial.Vertex.Round)
	}
	header := Header{Round: initial.Vertex.Round, VertexID: initial.Hash, Ledger: ledger}
	committed := header
	return &QuorumCertificate{
		VoteData: VoteData{Proposed: header, Parent: header, Committed: &committed},
	}, nil
}

func (qc *QuorumCertificate) Round() Round {
	return qc.VoteData.Proposed.Round
}

func (qc *QuorumCertificate) Epoch() uint64 {
	return qc.VoteData.Proposed.Ledger.Epoch
}

func (qc *QuorumCertificate) ProposedHeader() Header {
	return qc.VoteData.Proposed
}

func (qc *QuorumCertificate) ParentHeader() Header {
	return qc.VoteData.Parent
}

// CommittedHeader returns the header committed by this QC, nil if the QC commits nothing.
func (qc *QuorumCertificate) CommittedHeader() *Header {
	return qc.VoteData.Committed
}

// IsInitialEpochQC returns whether the QC certifies an epoch's initial vertex, in which case
// its proposed, parent and committed headers are equal and it carries no signatures.
func (qc *QuorumCertificate) IsInitialEpochQC() bool {
	committed := qc.CommittedHeader()
	if committed == nil {
		return false
	}
	return qc.ProposedHeader().Round.IsGenesis() &&
		qc.ProposedHeader().Equal(*committed) &&
		qc.ParentHeader().Equal(*committed)
}

func (qc *QuorumCertificate) Signers() []ValidatorID {
	return qc.Signatures.Signers()
}

// Timestamp is the median timestamp of the signers. An initial epoch QC carries no
// signatures and inherits the parent round timestamp of its ledger header.
func (qc *QuorumCertificate) Timestamp() int64 {
	if qc.ProposedHeader().Round.IsGenesis() {
		return qc.ProposedHeader().Ledger.ConsensusParentRoundTimestamp
	}
	return qc.Signatures.MedianTimestamp()
}

// CommittedAndLedgerProof returns the committed header together with the ledger proof it
// constitutes. Returns false if the QC does not commit anything.
func (qc *QuorumCertificate) CommittedAndLedgerProof(hasher hash.Hasher) (Header, LedgerProof, bool) {
	committed := qc.CommittedHeader()
	if committed == nil {
		return Header{}, LedgerProof{}, false
	}
	if qc.Signatures.Count() == 0 {
		return *committed, LedgerProof{Header: committed.Ledger}, true
	}
	return *committed, LedgerProof{
		Header:       committed.Ledger,
		VoteDataHash: hasher.HashEncoded(qc.VoteData),
		Signatures:   qc.Signatures,
	}, true
}

func (qc *QuorumCertificate) String() string {
	committed := ""
	if c := qc.CommittedHeader(); c != nil {
		committed = c.Round.String()
	}
	return fmt.Sprintf("QC{e=%d p=%d c=%s pv=%s num_signers=%d}",
		qc.Epoch(), qc.Round(), committed, qc.ProposedHeader().VertexID, qc.Signatures.Count())
}

// TimeoutCertificate proves that a quorum of validators timed out the round.
type TimeoutCertificate struct {
	Epoch      uint64
	Round      Round
	Signatures TimestampedSignatures
}

func (tc *TimeoutCertificate) Signers() []ValidatorID {
	return tc.Signatures.Signers()
}

func (tc *TimeoutCertificate) String() string {
	return fmt.Sprintf("TC{e=%d r=%d num_signers=%d}", tc.Epoch, tc.Round, tc.Signatures.Count())
}

// VoteTimeout is the content validators sign when timing out a round.
type VoteTimeout struct {
	Round Round
	Epoch uint64
}

func VoteTimeoutOf(vote *Vote) VoteTimeout {
	return VoteTimeout{Round: vote.Round(), Epoch: vote.Epoch()}
}
