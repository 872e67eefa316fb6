package ledger

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/onflow/chainbft/consensus/bft/leader"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
)

// EpochChangeFromProof builds the configuration of the epoch started by the proof.
// No errors are expected during normal operation, provided the proof ends an epoch.
func EpochChangeFromProof(log zerolog.Logger, hasher hash.Hasher, proof model.LedgerProof) (*model.EpochChange, error) {
	nextEpoch, ok := proof.NextEpoch()
	if !ok {
		return nil, fmt.Errorf("proof %s does not end an epoch", proof.Header)
	}
	validatorSet, err := model.NewValidatorSet(nextEpoch.Validators)
	if err != nil {
		return nil, fmt.Errorf("invalid validator set of epoch %d: %w", nextEpoch.Epoch, err)
	}
	election, err := leader.NewWeightedRotatingLeaders(validatorSet, leader.DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("could not create proposer election of epoch %d: %w", nextEpoch.Epoch, err)
	}
	state, err := model.NewVertexStoreStateForNextEpoch(log, proof, hasher)
	if err != nil {
		return nil, fmt.Errorf("could not create initial vertex store state of epoch %d: %w", nextEpoch.Epoch, err)
	}
	return &model.EpochChange{
		Proof: proof,
		Epoch: nextEpoch.Epoch,
		Configuration: model.BFTConfiguration{
			ProposerElection: election,
			ValidatorSet:     validatorSet,
			VertexStoreState: state,
		},
	}, nil
}
