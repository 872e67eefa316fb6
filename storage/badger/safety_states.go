package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/storage/badger/operation"
)

// SafetyStates stores the safety state of the local validator. Every commit is synced to
// disk before it returns, as a vote must never be sent before it is durable.
type SafetyStates struct {
	db *badger.DB
}

var _ bft.PersistentSafetyStateStore = (*SafetyStates)(nil)

func NewSafetyStates(db *badger.DB) *SafetyStates {
	return &SafetyStates{
		db: db,
	}
}

func (s *SafetyStates) CommitState(state model.SafetyState) error {
	err := operation.RetryOnConflict(s.db.Update, operation.UpsertSafetyState(&state))
	if err != nil {
		return fmt.Errorf("could not commit safety state: %w", operation.TerminateOnFullDisk(err))
	}
	err = s.db.Sync()
	if err != nil {
		return fmt.Errorf("could not sync safety state: %w", err)
	}
	return nil
}

func (s *SafetyStates) Get() (*model.SafetyState, error) {
	var state model.SafetyState
	err := s.db.View(operation.RetrieveSafetyState(&state))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve safety state: %w", err)
	}
	return &state, nil
}
