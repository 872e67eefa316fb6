package pubsub

import (
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
)

type OnCommittedConsumer = func(update model.BFTCommittedUpdate) error

// VertexStoreDistributor ingests vertex store events and distributes them to subscribers.
// Every subscriber receives every event, even if an earlier subscriber failed. The errors
// of all subscribers are returned together.
type VertexStoreDistributor struct {
	committedConsumers []OnCommittedConsumer
	consumers          []bft.VertexStoreConsumer
	lock               sync.RWMutex
}

var _ bft.VertexStoreConsumer = (*VertexStoreDistributor)(nil)

func NewVertexStoreDistributor() *VertexStoreDistributor {
	return &VertexStoreDistributor{}
}

func (d *VertexStoreDistributor) AddConsumer(consumer bft.VertexStoreConsumer) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.consumers = append(d.consumers, consumer)
}

func (d *VertexStoreDistributor) AddOnCommittedConsumer(consumer OnCommittedConsumer) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.committedConsumers = append(d.committedConsumers, consumer)
}

func (d *VertexStoreDistributor) OnVertexInserted(update model.BFTInsertUpdate) error {
	d.lock.RLock()
	defer d.lock.RUnlock()
	var errs *multierror.Error
	for _, consumer := range d.consumers {
		errs = multierror.Append(errs, consumer.OnVertexInserted(update))
	}
	return errs.ErrorOrNil()
}

func (d *VertexStoreDistributor) OnRebuild(update model.BFTRebuildUpdate) error {
	d.lock.RLock()
	defer d.lock.RUnlock()
	var errs *multierror.Error
	for _, consumer := range d.consumers {
		errs = multierror.Append(errs, consumer.OnRebuild(update))
	}
	return errs.ErrorOrNil()
}

func (d *VertexStoreDistributor) OnCommitted(update model.BFTCommittedUpdate) error {
	d.lock.RLock()
	defer d.lock.RUnlock()
	var errs *multierror.Error
	for _, consumer := range d.committedConsumers {
		errs = multierror.Append(errs, consumer(update))
	}
	for _, consumer := range d.consumers {
		errs = multierror.Append(errs, consumer.OnCommitted(update))
	}
	return errs.ErrorOrNil()
}

func (d *VertexStoreDistributor) OnHighQCUpdate(update model.BFTHighQCUpdate) error {
	d.lock.RLock()
	defer d.lock.RUnlock()
	var errs *multierror.Error
	for _, consumer := range d.consumers {
		errs = multierror.Append(errs, consumer.OnHighQCUpdate(update))
	}
	return errs.ErrorOrNil()
}
