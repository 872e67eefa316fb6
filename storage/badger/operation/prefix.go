package operation

import (
	"encoding/binary"
	"fmt"

	"github.com/onflow/chainbft/consensus/bft/model"
)

const (

	// codes for special database markers
	codeDBVersion = 1

	// codes for consensus safety and recovery state
	codeSafetyState      = 10
	codeVertexStoreState = 11
	codeLastProof        = 12
	codeEpochProof       = 13

	// codes for the committed ledger
	codeTransaction = 20
)

func makePrefix(code byte, keys ...interface{}) []byte {
	prefix := make([]byte, 1)
	prefix[0] = code
	for _, key := range keys {
		prefix = append(prefix, b(key)...)
	}
	return prefix
}

func b(v interface{}) []byte {
	switch i := v.(type) {
	case uint8:
		return []byte{i}
	case uint32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, i)
		return b
	case uint64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, i)
		return b
	case string:
		return []byte(i)
	case model.ValidatorID:
		return i[:]
	default:
		panic(fmt.Sprintf("unsupported type to convert (%T)", v))
	}
}
