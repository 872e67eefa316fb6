package safetyrules

import (
	"errors"
	"fmt"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/storage"
)

// InitialSafetyState returns the safety state a validator starts the epoch with. The
// persisted state is resumed if it belongs to the validator and was created for the epoch,
// which is the case after a restart. Otherwise the validator starts from scratch, as rounds
// restart with every epoch.
// No errors are expected during normal operation.
func InitialSafetyState(store bft.PersistentSafetyStateStore, self model.ValidatorID, epoch uint64) (model.SafetyState, error) {
	persisted, err := store.Get()
	if errors.Is(err, storage.ErrNotFound) {
		return model.InitialSafetyState(self, epoch), nil
	}
	if err != nil {
		return model.SafetyState{}, fmt.Errorf("could not load persisted safety state: %w", err)
	}
	if persisted.ValidatorID != self || persisted.Epoch != epoch {
		return model.InitialSafetyState(self, epoch), nil
	}
	return *persisted, nil
}
