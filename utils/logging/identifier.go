package logging

import (
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
)

// Hash returns the hash as a byte slice for zerolog's Hex fields.
func Hash(h hash.Hash) []byte {
	return h[:]
}

// ValidatorID returns the validator id as a byte slice for zerolog's Hex fields.
func ValidatorID(id model.ValidatorID) []byte {
	return id[:]
}

func ValidatorIDs(ids []model.ValidatorID) []string {
	ss := make([]string, 0, len(ids))
	for _, id := range ids {
		ss = append(ss, id.ShortString())
	}
	return ss
}
