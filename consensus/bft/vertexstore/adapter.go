package vertexstore

import (
	"fmt"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
)

// Adapter wraps a VertexStore and notifies the consumer about every change of the store.
// Like the store, it is NOT concurrency safe.
type Adapter struct {
	store    *VertexStore
	consumer bft.VertexStoreConsumer
}

var _ bft.VertexStoreReader = (*Adapter)(nil)

func NewAdapter(store *VertexStore, consumer bft.VertexStoreConsumer) *Adapter {
	return &Adapter{
		store:    store,
		consumer: consumer,
	}
}

// TryRebuild rebuilds the store from the state and emits a BFTRebuildUpdate on success.
// Expected error returns during normal operations:
//   - model.RebuildError if the state can not be resumed from
func (a *Adapter) TryRebuild(state *model.VertexStoreState) error {
	update, err := a.store.TryRebuild(state)
	if err != nil {
		return err
	}
	err = a.consumer.OnRebuild(*update)
	if err != nil {
		return fmt.Errorf("could not notify about rebuild: %w", err)
	}
	return nil
}

// InsertQc inserts the QC and emits either a BFTHighQCUpdate or, if vertices were committed,
// a BFTCommittedUpdate. Returns false only if the certified vertex is missing.
// No errors are expected during normal operation.
func (a *Adapter) InsertQc(qc *model.QuorumCertificate) (bool, error) {
	result, err := a.store.InsertQc(qc)
	if err != nil {
		return false, err
	}
	switch r := result.(type) {
	case *QcInserted:
		if r.CommittedUpdate == nil {
			err = a.consumer.OnHighQCUpdate(model.BFTHighQCUpdate{HighQC: r.HighQC, SerializedState: r.SerializedState})
			if err != nil {
				return false, fmt.Errorf("could not notify about high qc update: %w", err)
			}
			return true, nil
		}
		err = a.notifyCommitted(r)
		if err != nil {
			return false, err
		}
		return true, nil
	case QcIgnored:
		return true, nil
	case QcVertexMissing:
		return false, nil
	default:
		panic(fmt.Sprintf("unexpected insert qc result %T", r))
	}
}

// InsertTimeoutCertificate inserts the TC and emits a BFTHighQCUpdate if it became the
// highest TC.
// No errors are expected during normal operation.
func (a *Adapter) InsertTimeoutCertificate(tc *model.TimeoutCertificate) error {
	result, err := a.store.InsertTimeoutCertificate(tc)
	if err != nil {
		return err
	}
	switch r := result.(type) {
	case *TcInserted:
		err = a.consumer.OnHighQCUpdate(model.BFTHighQCUpdate{HighQC: r.HighQC, SerializedState: r.SerializedState})
		if err != nil {
			return fmt.Errorf("could not notify about high qc update: %w", err)
		}
		return nil
	case TcIgnored:
		return nil
	default:
		panic(fmt.Sprintf("unexpected insert tc result %T", r))
	}
}

// InsertVertex inserts the vertex and emits a BFTInsertUpdate if it was inserted.
// No errors are expected during normal operation.
func (a *Adapter) InsertVertex(vertex *model.VertexWithHash) error {
	update, err := a.store.InsertVertex(vertex)
	if err != nil {
		return err
	}
	if update == nil {
		return nil
	}
	err = a.consumer.OnVertexInserted(*update)
	if err != nil {
		return fmt.Errorf("could not notify about inserted vertex: %w", err)
	}
	return nil
}

// InsertVertexChain inserts a synced chain. For every inserted QC a BFTHighQCUpdate is
// emitted, followed by a BFTCommittedUpdate if it committed vertices. The inserted vertices
// are emitted afterwards.
// No errors are expected during normal operation.
func (a *Adapter) InsertVertexChain(chain model.VertexChain) error {
	result, err := a.store.InsertVertexChain(chain)
	if err != nil {
		return err
	}
	for _, inserted := range result.InsertedQCs {
		err = a.consumer.OnHighQCUpdate(model.BFTHighQCUpdate{HighQC: inserted.HighQC, SerializedState: inserted.SerializedState})
		if err != nil {
			return fmt.Errorf("could not notify about high qc update: %w", err)
		}
		if inserted.CommittedUpdate != nil {
			err = a.notifyCommitted(inserted)
			if err != nil {
				return err
			}
		}
	}
	for _, update := range result.InsertUpdates {
		err = a.consumer.OnVertexInserted(*update)
		if err != nil {
			return fmt.Errorf("could not notify about inserted vertex: %w", err)
		}
	}
	return nil
}

func (a *Adapter) notifyCommitted(inserted *QcInserted) error {
	err := a.consumer.OnCommitted(model.BFTCommittedUpdate{
		Committed:       inserted.CommittedUpdate.Committed,
		State:           inserted.State,
		SerializedState: inserted.SerializedState,
	})
	if err != nil {
		return fmt.Errorf("could not notify about committed vertices: %w", err)
	}
	return nil
}

func (a *Adapter) GetExecutedVertex(id hash.Hash) (*model.ExecutedVertex, bool, error) {
	return a.store.GetExecutedVertex(id)
}

func (a *Adapter) GetPathFromRoot(id hash.Hash) ([]*model.ExecutedVertex, error) {
	return a.store.GetPathFromRoot(id)
}

func (a *Adapter) GetVertices(id hash.Hash, count int) ([]*model.VertexWithHash, bool) {
	return a.store.GetVertices(id, count)
}

func (a *Adapter) ContainsVertex(id hash.Hash) bool {
	return a.store.ContainsVertex(id)
}

// HasCommittedVertexOrRootAtOrAboveRound returns whether the committed header is already
// known, either as a vertex of the store or because the root is not below it.
func (a *Adapter) HasCommittedVertexOrRootAtOrAboveRound(committed model.Header) bool {
	if a.store.ContainsVertex(committed.VertexID) {
		return true
	}
	return a.store.Root().Round() >= committed.Round
}

func (a *Adapter) HighQC() model.HighQC {
	return a.store.HighQC()
}

func (a *Adapter) Root() *model.VertexWithHash {
	return a.store.Root()
}

func (a *Adapter) GetCurrentUtilizationRatio() float64 {
	return a.store.GetCurrentUtilizationRatio()
}
