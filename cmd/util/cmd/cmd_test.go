package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/chainbft/consensus/bft/helper"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/module/metrics"
	bstorage "github.com/onflow/chainbft/storage/badger"
	"github.com/onflow/chainbft/utils/unittest"
)

// execute runs the command against the database in the directory and returns its output.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--datadir", dir, "--loglevel", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

// withStorages runs f against a fresh database in the directory and closes it afterwards.
func withStorages(t *testing.T, dir string, f func(*bstorage.All)) {
	db, err := bstorage.Open(dir, unittest.Logger())
	require.NoError(t, err)
	f(bstorage.InitAll(metrics.NewNoopCollector(), db))
	require.NoError(t, db.Close())
}

func TestReadSafetyState(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		withStorages(t, dir, func(*bstorage.All) {})
		out, err := execute(t, dir, "read-safety-state")
		require.NoError(t, err)
		assert.Empty(t, out)

		self := model.ValidatorID{1, 2, 3}
		vote := &model.Vote{
			Author: self,
			VoteData: model.VoteData{Proposed: model.Header{
				Round:    5,
				VertexID: unittest.HashFixture(),
				Ledger:   model.LedgerHeader{Epoch: 2, Round: 5},
			}},
			Timestamp: 1000,
		}
		withStorages(t, dir, func(storages *bstorage.All) {
			require.NoError(t, storages.SafetyStates.CommitState(model.SafetyState{ValidatorID: self, Epoch: 2, LockedRound: 3, LastVote: vote}))
		})

		out, err = execute(t, dir, "read-safety-state")
		require.NoError(t, err)
		var summary safetyStateSummary
		require.NoError(t, json.Unmarshal([]byte(out), &summary))
		assert.Equal(t, self.String(), summary.ValidatorID)
		assert.Equal(t, uint64(2), summary.Epoch)
		assert.Equal(t, uint64(3), summary.LockedRound)
		require.NotNil(t, summary.LastVote)
		assert.Equal(t, uint64(5), summary.LastVote.Round)
		assert.Equal(t, uint64(2), summary.LastVote.Epoch)
		assert.Equal(t, vote.VoteData.Proposed.VertexID.String(), summary.LastVote.VertexID)
		assert.False(t, summary.LastVote.Timeout)
	})
}

func TestReadVertexStore(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		withStorages(t, dir, func(*bstorage.All) {})
		out, err := execute(t, dir, "read-vertex-store", "--verify=false")
		require.NoError(t, err)
		assert.Empty(t, out)

		validators := helper.ValidatorSetFixture(t, helper.SignersFixture(t, 4))
		genesis := helper.GenesisStateFixture(t, hash.DefaultHasher, 3, validators)
		chain := helper.NewChain(t, hash.DefaultHasher, genesis)
		v1 := chain.ExtendDirect(genesis.Root().Hash, unittest.TransactionsFixture(2, 8)...)
		state, err := genesis.WithVertex(v1)
		require.NoError(t, err)
		encoded, err := model.EncodeSerializedState(state.ToSerialized())
		require.NoError(t, err)
		withStorages(t, dir, func(storages *bstorage.All) {
			require.NoError(t, storages.Checkpoints.Save(encoded))
		})

		out, err = execute(t, dir, "read-vertex-store", "--verify=true")
		require.NoError(t, err)
		var summary vertexStoreSummary
		require.NoError(t, json.Unmarshal([]byte(out), &summary))
		assert.Equal(t, uint64(3), summary.Epoch)
		assert.Equal(t, genesis.Root().Hash.String(), summary.Root.ID)
		require.Len(t, summary.Vertices, 1)
		assert.Equal(t, v1.Hash.String(), summary.Vertices[0].ID)
		assert.Equal(t, genesis.Root().Hash.String(), summary.Vertices[0].Parent)
		assert.Equal(t, 2, summary.Vertices[0].Transactions)
		assert.Nil(t, summary.HighestTCRound)
	})
}

func TestInvalidLogLevel(t *testing.T) {
	unittest.RunWithTempDir(t, func(dir string) {
		rootCmd.SetArgs([]string{"read-safety-state", "--datadir", dir, "--loglevel", "loud"})
		assert.Error(t, rootCmd.Execute())
	})
}
