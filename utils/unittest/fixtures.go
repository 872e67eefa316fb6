package unittest

import (
	crand "crypto/rand"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/onflow/chainbft/model/hash"
)

// returns a deterministic math/rand PRG that can be used for deterministic randomness in tests only.
// The PRG seed is logged in case the test iteration needs to be reproduced.
func GetPRG(t *testing.T) *rand.Rand {
	random := time.Now().UnixNano()
	t.Logf("rng seed is %d", random)
	rng := rand.New(rand.NewSource(random))
	return rng
}

func RandomBytes(n int) []byte {
	b := make([]byte, n)
	read, err := crand.Read(b)
	if err != nil {
		panic("cannot read random bytes")
	}
	if read != n {
		panic(fmt.Errorf("cannot read enough random bytes (got %d of %d)", read, n))
	}
	return b
}

// HashFixture returns a random hash.
func HashFixture() hash.Hash {
	var h hash.Hash
	_, _ = crand.Read(h[:])
	return h
}

// TransactionsFixture returns n random opaque transactions of the given size.
func TransactionsFixture(n int, size int) [][]byte {
	txns := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		txns = append(txns, RandomBytes(size))
	}
	return txns
}
