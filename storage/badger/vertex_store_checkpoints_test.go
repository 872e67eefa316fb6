package badger_test

import (
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/chainbft/consensus/bft/helper"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/storage"
	bstorage "github.com/onflow/chainbft/storage/badger"
	"github.com/onflow/chainbft/utils/unittest"
)

func TestVertexStoreCheckpoints(t *testing.T) {
	hasher := hash.NewSha3Hasher()
	genesis := helper.GenesisStateFixture(t, hasher, 2, helper.ValidatorSetFixture(t, helper.SignersFixture(t, 4)))
	chain := helper.NewChain(t, hasher, genesis)
	v1 := chain.ExtendDirect(genesis.Root().Hash, []byte{1, 2, 3})
	state, err := genesis.WithVertex(v1)
	require.NoError(t, err)
	serialized, err := model.EncodeSerializedState(state.ToSerialized())
	require.NoError(t, err)

	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		checkpoints := bstorage.NewVertexStoreCheckpoints(db)

		_, err := checkpoints.Load()
		require.True(t, errors.Is(err, storage.ErrNotFound))

		// stored through the consumer interface, as the vertex store adapter does
		require.NoError(t, checkpoints.OnVertexInserted(model.BFTInsertUpdate{Inserted: chain.Executed(v1.Hash), SerializedState: serialized}))

		loaded, err := checkpoints.Load()
		require.NoError(t, err)
		assert.True(t, loaded.IsForEpoch(2))
		rebuilt, err := loaded.ToVertexStoreState(unittest.Logger(), hasher)
		require.NoError(t, err)
		assert.Equal(t, genesis.Root().Hash, rebuilt.Root().Hash)
		require.Len(t, rebuilt.Vertices(), 1)
		assert.Equal(t, v1.Hash, rebuilt.Vertices()[0].Hash)

		require.NoError(t, checkpoints.Clear())
		_, err = checkpoints.Load()
		require.True(t, errors.Is(err, storage.ErrNotFound))
		require.NoError(t, checkpoints.Clear())
	})
}
