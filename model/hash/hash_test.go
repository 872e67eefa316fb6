package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Round uint64
	Tags  map[string]uint64
}

func TestHashEncoded_Deterministic(t *testing.T) {
	h := NewSha3Hasher()
	a := sample{Round: 3, Tags: map[string]uint64{"a": 1, "b": 2, "c": 3}}
	b := sample{Round: 3, Tags: map[string]uint64{"c": 3, "b": 2, "a": 1}}
	assert.Equal(t, h.HashEncoded(a), h.HashEncoded(b))

	c := sample{Round: 4, Tags: a.Tags}
	assert.NotEqual(t, h.HashEncoded(a), h.HashEncoded(c))
}

func TestHexStringToHash(t *testing.T) {
	h := NewSha3Hasher().HashBytes([]byte("vertex"))
	parsed, err := HexStringToHash(h.String())
	require.NoError(t, err)
	assert.Equal(t, h, parsed)

	_, err = HexStringToHash("abcd")
	require.Error(t, err)
	_, err = HexStringToHash("zz")
	require.Error(t, err)
}

func TestHashEncoded_NilAndEmptyContainersAgree(t *testing.T) {
	type container struct {
		Payload [][]byte
		Sig     []byte
	}
	h := NewSha3Hasher()
	assert.Equal(t, h.HashEncoded(container{}), h.HashEncoded(container{Payload: [][]byte{}, Sig: []byte{}}))
}
