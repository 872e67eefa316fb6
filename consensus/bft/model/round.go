package model

import "fmt"

// Round is the logical clock of consensus within an epoch. Exactly one proposer is
// elected per round.
type Round uint64

// GenesisRound is the round of the initial vertex of every epoch.
const GenesisRound Round = 0

func (r Round) Next() Round {
	return r + 1
}

// Previous returns the preceding round, saturating at GenesisRound.
func (r Round) Previous() Round {
	if r == GenesisRound {
		return GenesisRound
	}
	return r - 1
}

func (r Round) IsGenesis() bool {
	return r == GenesisRound
}

func (r Round) String() string {
	return fmt.Sprintf("%d", uint64(r))
}

// MaxRound returns the larger of two rounds.
func MaxRound(a, b Round) Round {
	if a > b {
		return a
	}
	return b
}
