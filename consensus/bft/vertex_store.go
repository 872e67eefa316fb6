package bft

import (
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
)

// VertexStoreReader is the read access to the vertex store needed to answer sync requests.
type VertexStoreReader interface {
	// GetVertices returns `count` vertices starting at the vertex and following parents.
	// Returns false if any of them is unknown.
	GetVertices(id hash.Hash, count int) ([]*model.VertexWithHash, bool)
	// HighQC returns the highest certificates known to the store.
	HighQC() model.HighQC
}
