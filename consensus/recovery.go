package consensus

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/ledger"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/storage"
	bstorage "github.com/onflow/chainbft/storage/badger"
)

// Recover reads the proof of the committed ledger state and the configuration of the epoch
// the node continues in. On the first start, the root proof is stored as the committed state.
// The root proof must end an epoch.
// No errors are expected during normal operation.
func Recover(
	log zerolog.Logger,
	hasher hash.Hasher,
	proofs *bstorage.LedgerProofs,
	rootProof model.LedgerProof,
) (model.LedgerProof, *model.EpochChange, error) {

	last, err := proofs.Last()
	if errors.Is(err, storage.ErrNotFound) {
		if _, ok := rootProof.NextEpoch(); !ok {
			return model.LedgerProof{}, nil, fmt.Errorf("root proof %s does not end an epoch", rootProof.Header)
		}
		err = proofs.StoreLast(rootProof)
		if err != nil {
			return model.LedgerProof{}, nil, fmt.Errorf("could not store root proof: %w", err)
		}
		log.Info().Uint64("state_version", rootProof.StateVersion()).Msg("bootstrapped from root proof")
		last = &rootProof
	} else if err != nil {
		return model.LedgerProof{}, nil, fmt.Errorf("could not read committed proof: %w", err)
	}

	// the epoch ended by the committed proof has no vertices left to process
	epoch := last.Epoch()
	if next, ok := last.NextEpoch(); ok {
		epoch = next.Epoch
	}
	epochProof, err := proofs.EpochProof(epoch)
	if err != nil {
		return model.LedgerProof{}, nil, fmt.Errorf("could not read proof starting epoch %d: %w", epoch, err)
	}
	epochChange, err := ledger.EpochChangeFromProof(log, hasher, *epochProof)
	if err != nil {
		return model.LedgerProof{}, nil, fmt.Errorf("could not recover configuration of epoch %d: %w", epoch, err)
	}

	log.Info().
		Uint64("epoch", epoch).
		Uint64("state_version", last.StateVersion()).
		Msg("recovery completed")

	return *last, epochChange, nil
}
