package model

import "fmt"

// HighQC is the set of highest certificates known to a validator.
//
// Invariant: HighestCommittedQC.Round() <= HighestQC.Round().
type HighQC struct {
	HighestQC          *QuorumCertificate
	HighestCommittedQC *QuorumCertificate
	HighestTC          *TimeoutCertificate
}

// NewHighQC validates the certificates' ordering.
func NewHighQC(highestQC, highestCommittedQC *QuorumCertificate, highestTC *TimeoutCertificate) (HighQC, error) {
	if highestQC == nil || highestCommittedQC == nil {
		return HighQC{}, fmt.Errorf("highest QC and highest committed QC are required")
	}
	if highestCommittedQC.Round() > highestQC.Round() {
		return HighQC{}, fmt.Errorf("highest committed QC round %d is above highest QC round %d",
			highestCommittedQC.Round(), highestQC.Round())
	}
	return HighQC{
		HighestQC:          highestQC,
		HighestCommittedQC: highestCommittedQC,
		HighestTC:          highestTC,
	}, nil
}

// HighQCOfInitialEpochQC uses the initial epoch QC as both highest and highest committed QC.
func HighQCOfInitialEpochQC(qc *QuorumCertificate) HighQC {
	return HighQC{HighestQC: qc, HighestCommittedQC: qc}
}

// HighestRound is the highest round certified by either the highest QC or the highest TC.
func (h HighQC) HighestRound() Round {
	round := h.HighestQC.Round()
	if h.HighestTC != nil {
		round = MaxRound(round, h.HighestTC.Round)
	}
	return round
}

func (h HighQC) WithHighestQC(qc *QuorumCertificate) HighQC {
	h.HighestQC = qc
	return h
}

func (h HighQC) WithHighestCommittedQC(qc *QuorumCertificate) HighQC {
	h.HighestCommittedQC = qc
	return h
}

func (h HighQC) WithHighestTC(tc *TimeoutCertificate) HighQC {
	h.HighestTC = tc
	return h
}

func (h HighQC) String() string {
	return fmt.Sprintf("HighQC{highestQC=%s highestCommittedQC=%s highestTC=%v}",
		h.HighestQC, h.HighestCommittedQC, h.HighestTC)
}
