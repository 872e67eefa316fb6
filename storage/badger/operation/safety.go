package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/chainbft/consensus/bft/model"
)

// UpsertSafetyState inserts or updates the safety state of the local validator.
// No errors are expected during normal operation.
func UpsertSafetyState(state *model.SafetyState) func(*badger.Txn) error {
	return upsert(makePrefix(codeSafetyState), state)
}

// RetrieveSafetyState retrieves the safety state of the local validator.
// Error returns:
//   - storage.ErrNotFound if the validator never persisted a safety state
func RetrieveSafetyState(state *model.SafetyState) func(*badger.Txn) error {
	return retrieve(makePrefix(codeSafetyState), state)
}
