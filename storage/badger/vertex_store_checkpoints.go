package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/storage/badger/operation"
)

// VertexStoreCheckpoints keeps the latest vertex store snapshot for crash recovery. It
// consumes the vertex store events and stores the snapshot attached to each of them.
type VertexStoreCheckpoints struct {
	db *badger.DB
}

var (
	_ bft.VertexStoreCheckpointer = (*VertexStoreCheckpoints)(nil)
	_ bft.VertexStoreConsumer     = (*VertexStoreCheckpoints)(nil)
)

func NewVertexStoreCheckpoints(db *badger.DB) *VertexStoreCheckpoints {
	return &VertexStoreCheckpoints{
		db: db,
	}
}

func (c *VertexStoreCheckpoints) Save(serialized []byte) error {
	err := operation.RetryOnConflict(c.db.Update, operation.UpsertVertexStoreState(serialized))
	if err != nil {
		return fmt.Errorf("could not save vertex store state: %w", operation.TerminateOnFullDisk(err))
	}
	return nil
}

func (c *VertexStoreCheckpoints) Load() (*model.SerializedVertexStoreState, error) {
	var serialized []byte
	err := c.db.View(operation.RetrieveVertexStoreState(&serialized))
	if err != nil {
		return nil, fmt.Errorf("could not load vertex store state: %w", err)
	}
	state, err := model.DecodeSerializedState(serialized)
	if err != nil {
		return nil, fmt.Errorf("could not decode stored vertex store state: %w", err)
	}
	return state, nil
}

// Clear removes the snapshot. A missing snapshot is not an error.
// No errors are expected during normal operation.
func (c *VertexStoreCheckpoints) Clear() error {
	err := operation.RetryOnConflict(c.db.Update, operation.RemoveVertexStoreState())
	if err != nil {
		return fmt.Errorf("could not clear vertex store state: %w", err)
	}
	return nil
}

func (c *VertexStoreCheckpoints) OnVertexInserted(update model.BFTInsertUpdate) error {
	return c.Save(update.SerializedState)
}

func (c *VertexStoreCheckpoints) OnRebuild(update model.BFTRebuildUpdate) error {
	return c.Save(update.SerializedState)
}

func (c *VertexStoreCheckpoints) OnCommitted(update model.BFTCommittedUpdate) error {
	return c.Save(update.SerializedState)
}

func (c *VertexStoreCheckpoints) OnHighQCUpdate(update model.BFTHighQCUpdate) error {
	return c.Save(update.SerializedState)
}
