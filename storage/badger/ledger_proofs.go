package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/module"
	"github.com/onflow/chainbft/module/metrics"
	"github.com/onflow/chainbft/storage"
	"github.com/onflow/chainbft/storage/badger/operation"
)

// LedgerProofs stores the proof of the latest committed ledger state and the proofs which
// ended each epoch. Epoch proofs never change, so they are cached.
type LedgerProofs struct {
	db          *badger.DB
	epochProofs *Cache
}

func NewLedgerProofs(collector module.CacheMetrics, db *badger.DB) *LedgerProofs {
	store := func(key interface{}, val interface{}) error {
		epoch := key.(uint64)
		proof := val.(*model.LedgerProof)
		return operation.RetryOnConflict(db.Update, operation.SkipDuplicates(operation.InsertEpochProof(epoch, proof)))
	}

	retrieve := func(key interface{}) (interface{}, error) {
		epoch := key.(uint64)
		var proof model.LedgerProof
		err := db.View(operation.RetrieveEpochProof(epoch, &proof))
		return &proof, err
	}

	return &LedgerProofs{
		db: db,
		epochProofs: newCache(collector,
			withLimit(100),
			withStore(store),
			withRetrieve(retrieve),
			withResource(metrics.ResourceEpochProof),
		),
	}
}

// StoreLast replaces the latest committed proof. The proof of an epoch change is also stored
// as the proof starting the next epoch.
// No errors are expected during normal operation.
func (p *LedgerProofs) StoreLast(proof model.LedgerProof) error {
	err := operation.RetryOnConflict(p.db.Update, func(tx *badger.Txn) error {
		err := operation.UpsertLastProof(&proof)(tx)
		if err != nil {
			return fmt.Errorf("could not store last proof: %w", err)
		}
		return nil
	})
	if err != nil {
		return operation.TerminateOnFullDisk(err)
	}
	if next, ok := proof.NextEpoch(); ok {
		err = p.epochProofs.Put(next.Epoch, &proof)
		if err != nil {
			return fmt.Errorf("could not store epoch proof: %w", err)
		}
	}
	return nil
}

// Last returns the proof of the latest committed ledger state.
// Expected error returns during normal operations:
//   - storage.ErrNotFound if nothing was committed yet
func (p *LedgerProofs) Last() (*model.LedgerProof, error) {
	var proof model.LedgerProof
	err := p.db.View(operation.RetrieveLastProof(&proof))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve last proof: %w", err)
	}
	return &proof, nil
}

// EpochProof returns the proof which started the epoch.
// Expected error returns during normal operations:
//   - storage.ErrNotFound if the epoch has not started yet
func (p *LedgerProofs) EpochProof(epoch uint64) (*model.LedgerProof, error) {
	proof, err := p.epochProofs.Get(epoch)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("no proof for epoch %d: %w", epoch, err)
	}
	if err != nil {
		return nil, err
	}
	return proof.(*model.LedgerProof), nil
}
