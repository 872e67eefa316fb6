package signature

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
)

// ValidatorIDFromPublicKey derives the validator id from the compressed public key.
func ValidatorIDFromPublicKey(pub *btcec.PublicKey) model.ValidatorID {
	var id model.ValidatorID
	copy(id[:], pub.SerializeCompressed())
	return id
}

// PublicKeyFromValidatorID parses the public key a validator id encodes.
func PublicKeyFromValidatorID(id model.ValidatorID) (*btcec.PublicKey, error) {
	pub, err := btcec.ParsePubKey(id[:])
	if err != nil {
		return nil, fmt.Errorf("invalid validator id %s: %w", id, err)
	}
	return pub, nil
}

// PrivateKeyFromHex decodes a hex encoded secp256k1 private key.
func PrivateKeyFromHex(s string) (*btcec.PrivateKey, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("could not decode private key: %w", err)
	}
	if len(b) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", btcec.PrivKeyBytesLen, len(b))
	}
	priv, _ := btcec.PrivKeyFromBytes(b)
	return priv, nil
}

// Signer signs consensus hashes with ECDSA over secp256k1. Signatures are DER encoded.
type Signer struct {
	key *btcec.PrivateKey
	id  model.ValidatorID
}

var _ bft.HashSigner = (*Signer)(nil)

func NewSigner(key *btcec.PrivateKey) *Signer {
	return &Signer{
		key: key,
		id:  ValidatorIDFromPublicKey(key.PubKey()),
	}
}

// ValidatorID is the id of the validator owning the key.
func (s *Signer) ValidatorID() model.ValidatorID {
	return s.id
}

func (s *Signer) Sign(h hash.Hash) ([]byte, error) {
	return ecdsa.Sign(s.key, h[:]).Serialize(), nil
}

// Verifier verifies DER encoded ECDSA signatures against the public key encoded in the
// signer's validator id.
type Verifier struct{}

var _ bft.HashVerifier = (*Verifier)(nil)

func NewVerifier() *Verifier {
	return &Verifier{}
}

func (v *Verifier) Verify(signer model.ValidatorID, h hash.Hash, signature []byte) bool {
	pub, err := PublicKeyFromValidatorID(signer)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(h[:], pub)
}
