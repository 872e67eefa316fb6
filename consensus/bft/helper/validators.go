package helper

import (
	"fmt"

	"github.com/stretchr/testify/require"

	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/consensus/bft/signature"
	"github.com/onflow/chainbft/utils/unittest"
)

// SignersFixture returns n signers with deterministic keys.
func SignersFixture(t require.TestingT, n int) []*signature.Signer {
	signers := make([]*signature.Signer, 0, n)
	for i := 1; i <= n; i++ {
		key, err := signature.PrivateKeyFromHex(fmt.Sprintf("%064x", i))
		require.NoError(t, err)
		signers = append(signers, signature.NewSigner(key))
	}
	return signers
}

// ValidatorSetFixture returns a validator set of the signers, each with voting power 1.
func ValidatorSetFixture(t require.TestingT, signers []*signature.Signer) *model.ValidatorSet {
	validators := make([]model.Validator, 0, len(signers))
	for _, s := range signers {
		validators = append(validators, model.Validator{ID: s.ValidatorID(), Power: 1})
	}
	set, err := model.NewValidatorSet(validators)
	require.NoError(t, err)
	return set
}

// ValidatorIDFixture returns a random, syntactically valid validator id. The id is not a
// valid public key.
func ValidatorIDFixture() model.ValidatorID {
	var id model.ValidatorID
	id[0] = 0x02
	copy(id[1:], unittest.RandomBytes(model.ValidatorIDLen-1))
	return id
}
