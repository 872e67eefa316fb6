package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onflow/chainbft/consensus/bft/model"
)

func TestSafetyState_Apply(t *testing.T) {
	self := model.ValidatorID{1}
	vote := func(round model.Round, signature byte) *model.Vote {
		return &model.Vote{
			Author:    self,
			VoteData:  model.VoteData{Proposed: model.Header{Round: round, Ledger: model.LedgerHeader{Epoch: 1, Round: round}}},
			Timestamp: int64(round) * 1_000,
			Signature: []byte{signature},
		}
	}
	vote1 := vote(1, 1)
	vote2 := vote(2, 2)
	state := model.InitialSafetyState(self, 1).Apply(model.SafetyStateUpdate{LastVote: vote2})

	t.Run("empty update", func(t *testing.T) {
		assert.Equal(t, state, state.Apply(model.SafetyStateUpdate{}))
	})

	t.Run("higher round replaces last vote", func(t *testing.T) {
		vote3 := vote(3, 3)
		assert.Same(t, vote3, state.Apply(model.SafetyStateUpdate{LastVote: vote3}).LastVote)
	})

	t.Run("timeout of the last vote", func(t *testing.T) {
		timeout := vote2.WithTimeoutSignature([]byte{9})
		next := state.Apply(model.SafetyStateUpdate{LastVote: timeout})
		assert.Same(t, timeout, next.LastVote)

		// the timeout cannot be undone
		assert.Same(t, timeout, next.Apply(model.SafetyStateUpdate{LastVote: vote2}).LastVote)
	})

	t.Run("lower round is ignored", func(t *testing.T) {
		assert.Same(t, vote2, state.Apply(model.SafetyStateUpdate{LastVote: vote1}).LastVote)
		assert.Same(t, vote2, state.Apply(model.SafetyStateUpdate{LastVote: vote1.WithTimeoutSignature([]byte{9})}).LastVote)
	})

	t.Run("other vote of the same round is ignored", func(t *testing.T) {
		other := vote(2, 7)
		assert.Same(t, vote2, state.Apply(model.SafetyStateUpdate{LastVote: other}).LastVote)
		assert.Same(t, vote2, state.Apply(model.SafetyStateUpdate{LastVote: other.WithTimeoutSignature([]byte{9})}).LastVote)
	})

	t.Run("locked round never decreases", func(t *testing.T) {
		high, low := model.Round(5), model.Round(3)
		locked := state.Apply(model.SafetyStateUpdate{LockedRound: &high})
		assert.Equal(t, high, locked.LockedRound)
		assert.Equal(t, high, locked.Apply(model.SafetyStateUpdate{LockedRound: &low}).LockedRound)
	})
}
