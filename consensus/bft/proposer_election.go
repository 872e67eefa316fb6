package bft

import (
	"github.com/onflow/chainbft/consensus/bft/model"
)

// ProposerElection elects the leader of each round of an epoch. It must be deterministic, so
// that all validators agree on the leader.
type ProposerElection = model.ProposerElection
