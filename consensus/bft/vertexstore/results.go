package vertexstore

import (
	"github.com/onflow/chainbft/consensus/bft/model"
)

// InsertQcResult is the outcome of VertexStore.InsertQc. It is one of *QcInserted,
// QcIgnored or QcVertexMissing. Callers must handle all of them.
type InsertQcResult interface {
	insertQcResult()
}

// QcInserted is returned when the QC became the highest QC, committed vertices, or both.
type QcInserted struct {
	HighQC          model.HighQC
	State           *model.VertexStoreState
	SerializedState []byte
	// CommittedUpdate is nil if nothing was committed.
	CommittedUpdate *CommittedUpdate
}

// QcIgnored is returned when the QC neither improved the high QC nor committed anything, or
// when the certified vertex already has children.
type QcIgnored struct{}

// QcVertexMissing is returned when the certified vertex is unknown. The caller needs to
// sync the vertex before the QC can be inserted.
type QcVertexMissing struct{}

func (*QcInserted) insertQcResult()     {}
func (QcIgnored) insertQcResult()       {}
func (QcVertexMissing) insertQcResult() {}

// CommittedUpdate lists the vertices committed by a QC, ordered from the oldest to the new root.
type CommittedUpdate struct {
	Committed []*model.ExecutedVertex
	HighQC    model.HighQC
}

// InsertTcResult is the outcome of VertexStore.InsertTimeoutCertificate. It is either
// *TcInserted or TcIgnored.
type InsertTcResult interface {
	insertTcResult()
}

// TcInserted is returned when the TC became the highest TC.
type TcInserted struct {
	HighQC          model.HighQC
	SerializedState []byte
}

// TcIgnored is returned when the TC is not above the highest known round.
type TcIgnored struct{}

func (*TcInserted) insertTcResult() {}
func (TcIgnored) insertTcResult()   {}

// InsertVertexChainResult collects the QCs and vertices inserted from a vertex chain.
type InsertVertexChainResult struct {
	InsertedQCs   []*QcInserted
	InsertUpdates []*model.BFTInsertUpdate
}
