package notifications

import (
	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
)

// NoopConsumer is an implementation of the notifications consumer that
// doesn't do anything.
type NoopConsumer struct{}

var _ bft.VertexStoreConsumer = (*NoopConsumer)(nil)

func NewNoopConsumer() *NoopConsumer {
	nc := &NoopConsumer{}
	return nc
}

func (*NoopConsumer) OnVertexInserted(model.BFTInsertUpdate) error { return nil }

func (*NoopConsumer) OnRebuild(model.BFTRebuildUpdate) error { return nil }

func (*NoopConsumer) OnCommitted(model.BFTCommittedUpdate) error { return nil }

func (*NoopConsumer) OnHighQCUpdate(model.BFTHighQCUpdate) error { return nil }
