package hash

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/sha3"
)

// HashLen is the length in bytes of a content hash.
const HashLen = 32

// Hash is the content identifier of consensus objects (vertices, vote data, certificates).
type Hash [HashLen]byte

// ZeroHash is the empty hash.
var ZeroHash = Hash{}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero returns true if the hash is the zero value.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Compare orders hashes lexicographically.
func (h Hash) Compare(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// HexStringToHash parses a hex encoded hash.
func HexStringToHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("could not decode hash: %w", err)
	}
	if len(b) != HashLen {
		return h, fmt.Errorf("wrong hash length (expected %d, got %d)", HashLen, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// Hasher computes canonical content hashes of arbitrary values.
type Hasher interface {
	// HashEncoded encodes the value canonically and returns the hash of the encoding.
	HashEncoded(v interface{}) Hash
	// HashBytes returns the hash of the given bytes.
	HashBytes(b []byte) Hash
}

// DefaultHasher is the hasher used across the node.
var DefaultHasher Hasher = NewSha3Hasher()

// Sha3Hasher encodes values with deterministic CBOR and hashes the encoding with SHA3-256.
type Sha3Hasher struct {
	enc cbor.EncMode
}

var _ Hasher = (*Sha3Hasher)(nil)

// NewSha3Hasher creates a new canonical hasher. Nil and empty containers encode identically,
// so a value hashes the same before and after a storage round trip.
func NewSha3Hasher() *Sha3Hasher {
	opts := cbor.CanonicalEncOptions()
	opts.NilContainers = cbor.NilContainerAsEmpty
	enc, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("could not build canonical cbor encoder: %v", err))
	}
	return &Sha3Hasher{enc: enc}
}

// HashEncoded panics if the value cannot be encoded, as hashed values are always
// well-formed consensus types.
func (h *Sha3Hasher) HashEncoded(v interface{}) Hash {
	b, err := h.enc.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("could not encode %T for hashing: %v", v, err))
	}
	return h.HashBytes(b)
}

func (h *Sha3Hasher) HashBytes(b []byte) Hash {
	return Hash(sha3.Sum256(b))
}
