package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/chainbft/consensus/bft/model"
)

// UpsertVertexStoreState stores the encoded vertex store snapshot, replacing the previous one.
// No errors are expected during normal operation.
func UpsertVertexStoreState(serialized []byte) func(*badger.Txn) error {
	return upsertBytes(makePrefix(codeVertexStoreState), serialized)
}

// RetrieveVertexStoreState loads the encoded vertex store snapshot.
// Error returns:
//   - storage.ErrNotFound if no snapshot was stored yet
func RetrieveVertexStoreState(serialized *[]byte) func(*badger.Txn) error {
	return retrieveBytes(makePrefix(codeVertexStoreState), serialized)
}

// RemoveVertexStoreState deletes the snapshot, so that the next start begins from the epoch's
// initial state.
func RemoveVertexStoreState() func(*badger.Txn) error {
	return remove(makePrefix(codeVertexStoreState))
}

// UpsertLastProof stores the proof of the latest committed ledger state.
// No errors are expected during normal operation.
func UpsertLastProof(proof *model.LedgerProof) func(*badger.Txn) error {
	return upsert(makePrefix(codeLastProof), proof)
}

// RetrieveLastProof loads the proof of the latest committed ledger state.
// Error returns:
//   - storage.ErrNotFound if nothing was committed yet
func RetrieveLastProof(proof *model.LedgerProof) func(*badger.Txn) error {
	return retrieve(makePrefix(codeLastProof), proof)
}

// InsertEpochProof stores the proof which ended the epoch preceding the given epoch.
// Error returns:
//   - storage.ErrAlreadyExists if a proof for the epoch was already stored
func InsertEpochProof(epoch uint64, proof *model.LedgerProof) func(*badger.Txn) error {
	return insert(makePrefix(codeEpochProof, epoch), proof)
}

// RetrieveEpochProof loads the proof which ended the epoch preceding the given epoch.
// Error returns:
//   - storage.ErrNotFound if no proof was stored for the epoch
func RetrieveEpochProof(epoch uint64, proof *model.LedgerProof) func(*badger.Txn) error {
	return retrieve(makePrefix(codeEpochProof, epoch), proof)
}

// HasEpochProof checks whether the proof starting the given epoch was stored.
func HasEpochProof(epoch uint64, found *bool) func(*badger.Txn) error {
	return exists(makePrefix(codeEpochProof, epoch), found)
}
