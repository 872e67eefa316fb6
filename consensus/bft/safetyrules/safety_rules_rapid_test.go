package safetyrules

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"pgregory.net/rapid"

	"github.com/onflow/chainbft/consensus/bft/helper"
	"github.com/onflow/chainbft/consensus/bft/mocks"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/consensus/bft/signature"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/module/metrics"
	"github.com/onflow/chainbft/utils/unittest"
)

// TestSafetyRules_Rapid votes for random forks and checks that no two votes share a round
// and that the locked round never decreases, neither in memory nor in persisted states.
func TestSafetyRules_Rapid(t *testing.T) {
	hasher := hash.NewSha3Hasher()
	signers := helper.SignersFixture(t, 4)
	validators := helper.ValidatorSetFixture(t, signers)

	rapid.Check(t, func(t *rapid.T) {
		genesis := helper.GenesisStateFixture(t, hasher, testEpoch, validators)
		chain := helper.NewChain(t, hasher, genesis, helper.WithSigners(signers...))

		var persisted []model.SafetyState
		store := &mocks.PersistentSafetyStateStore{}
		store.On("CommitState", mock.Anything).Run(func(args mock.Arguments) {
			persisted = append(persisted, args.Get(0).(model.SafetyState))
		}).Return(nil)

		safety, err := New(unittest.Logger(), hasher, signers[0], signature.NewVerifier(), validators, store,
			metrics.NewNoopCollector(), DefaultConfig(), model.InitialSafetyState(signers[0].ValidatorID(), testEpoch))
		if err != nil {
			t.Fatalf("could not create safety rules: %v", err)
		}

		vertices := []*model.VertexWithHash{genesis.Root()}
		votes := make(map[model.Round]model.VoteData)
		lockedRound := model.GenesisRound

		var created []*model.Vote
		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if len(created) > 0 && rapid.Bool().Draw(t, "timeout") {
				// time out any earlier vote, which only succeeds for the last vote
				vote := created[rapid.IntRange(0, len(created)-1).Draw(t, "timed_out")]
				lastVoted := safety.State().LastVotedRound()
				_, err := safety.TimeoutVote(vote)
				if err != nil && !model.IsNoVoteError(err) {
					t.Fatalf("unexpected error: %v", err)
				}
				if safety.State().LastVotedRound() != lastVoted {
					t.Fatalf("timeout of round %d moved last voted round from %d to %d", vote.Round(), lastVoted, safety.State().LastVotedRound())
				}
				continue
			}

			parent := vertices[rapid.IntRange(0, len(vertices)-1).Draw(t, "parent")]
			round := parent.Round() + model.Round(rapid.IntRange(1, 3).Draw(t, "round_delta"))
			payload := rapid.Byte().Draw(t, "payload")
			v := chain.Extend(parent.Hash, round, []byte{payload})
			vertices = append(vertices, v)

			vote, err := safety.CreateVote(v, chain.Header(v.Hash), int64(round)*1_000, genesis.HighQC())
			if err != nil {
				if !model.IsNoVoteError(err) {
					t.Fatalf("unexpected error: %v", err)
				}
			} else {
				if previous, ok := votes[vote.Round()]; ok {
					t.Fatalf("voted twice in round %d: %v and %v", vote.Round(), previous, vote.VoteData)
				}
				votes[vote.Round()] = vote.VoteData
				created = append(created, vote)
			}

			if safety.State().LockedRound < lockedRound {
				t.Fatalf("locked round decreased from %d to %d", lockedRound, safety.State().LockedRound)
			}
			lockedRound = safety.State().LockedRound
		}

		for i := 1; i < len(persisted); i++ {
			if persisted[i].LockedRound < persisted[i-1].LockedRound {
				t.Fatalf("persisted locked round decreased from %d to %d", persisted[i-1].LockedRound, persisted[i].LockedRound)
			}
			previous, current := persisted[i-1].LastVote, persisted[i].LastVote
			if current.Round() < previous.Round() {
				t.Fatalf("persisted vote round decreased from %d to %d", previous.Round(), current.Round())
			}
			if current.Round() == previous.Round() && !(current.IsTimeout() && current.SameVote(previous)) {
				t.Fatalf("persisted vote of round %d replaced by another vote of the same round", current.Round())
			}
		}
	})
}
