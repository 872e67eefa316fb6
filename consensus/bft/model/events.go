package model

// BFTInsertUpdate is emitted after a vertex was executed and inserted.
type BFTInsertUpdate struct {
	Inserted        *ExecutedVertex
	SerializedState []byte
}

// BFTRebuildUpdate is emitted after the vertex store was rebuilt from a snapshot.
type BFTRebuildUpdate struct {
	State           *VertexStoreState
	SerializedState []byte
}

// BFTCommittedUpdate is emitted after vertices were committed. Committed is ordered from the
// oldest to the newest vertex, which is the new root.
type BFTCommittedUpdate struct {
	Committed       []*ExecutedVertex
	State           *VertexStoreState
	SerializedState []byte
}

// BFTHighQCUpdate is emitted after a new high QC or TC was inserted without committing.
type BFTHighQCUpdate struct {
	HighQC          HighQC
	SerializedState []byte
}
