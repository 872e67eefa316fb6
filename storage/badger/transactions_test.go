package badger_test

import (
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/chainbft/storage"
	bstorage "github.com/onflow/chainbft/storage/badger"
	"github.com/onflow/chainbft/utils/unittest"
)

func TestTransactions(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		store := bstorage.NewTransactions(db)

		expected := unittest.TransactionsFixture(3, 16)
		err := store.Store(101, expected)
		require.NoError(t, err)

		for i, transaction := range expected {
			actual, err := store.ByVersion(101 + uint64(i))
			require.NoError(t, err)
			assert.Equal(t, transaction, actual)
		}

		_, err = store.ByVersion(100)
		assert.True(t, errors.Is(err, storage.ErrNotFound))
	})
}

// TestTransactions_Overlap checks that transactions which were already stored are kept.
func TestTransactions_Overlap(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		store := bstorage.NewTransactions(db)

		first := unittest.TransactionsFixture(2, 16)
		require.NoError(t, store.Store(1, first))
		second := unittest.TransactionsFixture(3, 16)
		require.NoError(t, store.Store(2, second))

		actual, err := store.ByVersion(2)
		require.NoError(t, err)
		assert.Equal(t, first[1], actual)
		actual, err = store.ByVersion(4)
		require.NoError(t, err)
		assert.Equal(t, second[2], actual)
	})
}
