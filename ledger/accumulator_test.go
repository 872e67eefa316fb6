package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/ledger"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/utils/unittest"
)

func TestAccumulator(t *testing.T) {
	accumulator := ledger.NewAccumulator(hash.NewSha3Hasher())
	start := model.AccumulatorState{StateVersion: 10, AccumulatorHash: unittest.HashFixture()}
	txns := unittest.TransactionsFixture(4, 16)
	end := accumulator.AccumulateTransactions(start, txns)
	require.Equal(t, uint64(14), end.StateVersion)

	t.Run("verify", func(t *testing.T) {
		payloads := make([]hash.Hash, 0, len(txns))
		for _, tx := range txns {
			payloads = append(payloads, accumulator.PayloadHash(tx))
		}
		assert.True(t, accumulator.Verify(start, payloads, end))
		assert.False(t, accumulator.Verify(start, payloads[:3], end))
		assert.False(t, accumulator.Verify(start, append(payloads[1:], payloads[0]), end))
	})

	t.Run("exact extension", func(t *testing.T) {
		extension, ok := accumulator.VerifyAndGetExtension(start, txns, end)
		require.True(t, ok)
		assert.Equal(t, txns, extension)
	})

	t.Run("already committed prefix is skipped", func(t *testing.T) {
		middle := accumulator.AccumulateTransactions(start, txns[:2])
		extension, ok := accumulator.VerifyAndGetExtension(middle, txns, end)
		require.True(t, ok)
		assert.Equal(t, txns[2:], extension)
	})

	t.Run("no new transactions", func(t *testing.T) {
		extension, ok := accumulator.VerifyAndGetExtension(end, txns, end)
		require.True(t, ok)
		assert.Empty(t, extension)
	})

	t.Run("missing transactions", func(t *testing.T) {
		_, ok := accumulator.VerifyAndGetExtension(start, txns[1:], end)
		assert.False(t, ok)
	})

	t.Run("start after end", func(t *testing.T) {
		_, ok := accumulator.VerifyAndGetExtension(end, txns, start)
		assert.False(t, ok)
	})

	t.Run("other transactions", func(t *testing.T) {
		_, ok := accumulator.VerifyAndGetExtension(start, unittest.TransactionsFixture(4, 16), end)
		assert.False(t, ok)
	})
}
