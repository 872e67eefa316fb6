package bft

import (
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
)

// HashSigner signs consensus hashes with the local validator's key.
type HashSigner interface {
	// Sign returns the signature of the hash.
	// No errors are expected during normal operation.
	Sign(h hash.Hash) ([]byte, error)
}

// HashVerifier verifies signatures of validators.
type HashVerifier interface {
	// Verify returns whether the signature over the hash was created by the validator. Malformed
	// signatures are reported as invalid.
	Verify(signer model.ValidatorID, h hash.Hash, signature []byte) bool
}
