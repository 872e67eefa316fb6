package model

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v4"

	"github.com/onflow/chainbft/model/hash"
)

// VertexStoreState is an immutable snapshot of the vertex store. A snapshot is persisted on
// every commit so that votes cast for uncommitted vertices survive a crash.
//
// Invariant: every vertex's parent is either the root or an earlier vertex of Vertices.
type VertexStoreState struct {
	root       *VertexWithHash
	rootHeader LedgerProof
	highQC     HighQC
	vertices   []*VertexWithHash
	idToVertex map[hash.Hash]*VertexWithHash
}

// NewVertexStoreStateForNextEpoch creates the state an epoch starts from: the initial epoch
// vertex, certified by a signature-less QC, on top of the proof which ended the previous epoch.
func NewVertexStoreStateForNextEpoch(log zerolog.Logger, epochProof LedgerProof, hasher hash.Hasher) (*VertexStoreState, error) {
	nextEpoch, ok := epochProof.NextEpoch()
	if !ok {
		return nil, fmt.Errorf("expected end of epoch proof, got %s", epochProof.Header)
	}
	initialVertex := NewInitialEpochVertex(epochProof.Header).WithID(hasher)
	nextLedgerHeader := LedgerHeader{
		Epoch:                         nextEpoch.Epoch,
		Round:                         GenesisRound,
		Accumulator:                   epochProof.Header.Accumulator,
		StateHash:                     epochProof.Header.StateHash,
		ConsensusParentRoundTimestamp: epochProof.Header.ConsensusParentRoundTimestamp,
		ProposerTimestamp:             epochProof.Header.ProposerTimestamp,
	}
	initialQC, err := NewInitialEpochQC(initialVertex, nextLedgerHeader)
	if err != nil {
		return nil, fmt.Errorf("could not create initial epoch qc: %w", err)
	}
	return NewVertexStoreState(log, HighQCOfInitialEpochQC(initialQC), initialVertex, nil, hasher)
}

// NewVertexStoreState validates and creates a snapshot. The highest committed QC must commit
// the root and every vertex must descend from the root. High QC headers without a matching
// vertex are only logged, as they can legitimately be missing after a restart.
func NewVertexStoreState(log zerolog.Logger, highQC HighQC, root *VertexWithHash, vertices []*VertexWithHash, hasher hash.Hasher) (*VertexStoreState, error) {
	committed, rootHeader, ok := highQC.HighestCommittedQC.CommittedAndLedgerProof(hasher)
	if !ok {
		return nil, fmt.Errorf("highQC %s does not have a commit", highQC)
	}
	if committed.VertexID != root.Hash {
		return nil, fmt.Errorf("committed header %s does not match root vertex %s", committed, root.Hash)
	}

	seen := make(map[hash.Hash]*VertexWithHash, len(vertices)+1)
	seen[root.Hash] = root
	for _, v := range vertices {
		if _, ok := seen[v.ParentVertexID()]; !ok {
			return nil, fmt.Errorf("vertex %s is missing its parent %s (root=%s)", v.Hash, v.ParentVertexID(), root.Hash)
		}
		seen[v.Hash] = v
	}

	log = log.With().Str("highQC", highQC.String()).Logger()
	contains := func(h Header) bool {
		_, ok := seen[h.VertexID]
		return ok
	}
	if !contains(highQC.HighestCommittedQC.ProposedHeader()) {
		log.Warn().Msg("highest committed QC proposed vertex is missing")
	}
	if !contains(highQC.HighestCommittedQC.ParentHeader()) {
		log.Warn().Msg("highest committed QC parent does not have a corresponding vertex")
	}
	if !contains(highQC.HighestQC.ParentHeader()) {
		log.Warn().Msg("highest QC parent does not have a corresponding vertex")
	}
	if !contains(highQC.HighestQC.ProposedHeader()) {
		log.Warn().Msg("highest QC proposed does not have a corresponding vertex")
	}

	list := make([]*VertexWithHash, len(vertices))
	copy(list, vertices)
	return &VertexStoreState{
		root:       root,
		rootHeader: rootHeader,
		highQC:     highQC,
		vertices:   list,
		idToVertex: seen,
	}, nil
}

func (s *VertexStoreState) Root() *VertexWithHash {
	return s.root
}

// RootHeader is the ledger proof committing the root vertex.
func (s *VertexStoreState) RootHeader() LedgerProof {
	return s.rootHeader
}

func (s *VertexStoreState) HighQC() HighQC {
	return s.highQC
}

// Vertices returns the non-root vertices, parents before children.
func (s *VertexStoreState) Vertices() []*VertexWithHash {
	out := make([]*VertexWithHash, len(s.vertices))
	copy(out, s.vertices)
	return out
}

// Contains returns whether the root or one of the vertices has the given hash.
func (s *VertexStoreState) Contains(id hash.Hash) bool {
	_, ok := s.idToVertex[id]
	return ok
}

// WithVertex returns a copy of the state with the vertex appended. The parent must be part
// of the state.
func (s *VertexStoreState) WithVertex(v *VertexWithHash) (*VertexStoreState, error) {
	if _, ok := s.idToVertex[v.ParentVertexID()]; !ok {
		return nil, MissingParentError{ParentID: v.ParentVertexID()}
	}
	vertices := make([]*VertexWithHash, len(s.vertices), len(s.vertices)+1)
	copy(vertices, s.vertices)
	idToVertex := make(map[hash.Hash]*VertexWithHash, len(s.idToVertex)+1)
	for id, vertex := range s.idToVertex {
		idToVertex[id] = vertex
	}
	idToVertex[v.Hash] = v
	return &VertexStoreState{
		root:       s.root,
		rootHeader: s.rootHeader,
		highQC:     s.highQC,
		vertices:   append(vertices, v),
		idToVertex: idToVertex,
	}, nil
}

func (s *VertexStoreState) ToSerialized() *SerializedVertexStoreState {
	vertices := make([]*Vertex, 0, len(s.vertices))
	for _, v := range s.vertices {
		vertices = append(vertices, v.Vertex)
	}
	return &SerializedVertexStoreState{
		HighQC:   s.highQC,
		Root:     s.root.Vertex,
		Vertices: vertices,
	}
}

func (s *VertexStoreState) String() string {
	return fmt.Sprintf("VertexStoreState{root=%s highQC=%s vertices=%d}", s.root.Hash, s.highQC, len(s.vertices))
}

// SerializedVertexStoreState is the persisted form of a VertexStoreState. Vertex hashes are
// recomputed when it is loaded.
type SerializedVertexStoreState struct {
	HighQC   HighQC
	Root     *Vertex
	Vertices []*Vertex
}

// IsForEpoch returns whether the snapshot was taken in the given epoch.
func (s *SerializedVertexStoreState) IsForEpoch(epoch uint64) bool {
	return s.HighQC.HighestQC.Epoch() == epoch
}

// ToVertexStoreState recomputes vertex hashes and validates the snapshot.
func (s *SerializedVertexStoreState) ToVertexStoreState(log zerolog.Logger, hasher hash.Hasher) (*VertexStoreState, error) {
	if s.Root == nil || s.HighQC.HighestQC == nil || s.HighQC.HighestCommittedQC == nil {
		return nil, fmt.Errorf("incomplete serialized vertex store state")
	}
	vertices := make([]*VertexWithHash, 0, len(s.Vertices))
	for _, v := range s.Vertices {
		vertices = append(vertices, v.WithID(hasher))
	}
	return NewVertexStoreState(log, s.HighQC, s.Root.WithID(hasher), vertices, hasher)
}

// EncodeSerializedState encodes a snapshot for persistence and size accounting.
func EncodeSerializedState(s *SerializedVertexStoreState) ([]byte, error) {
	b, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("could not encode vertex store state: %w", err)
	}
	return b, nil
}

// DecodeSerializedState is the inverse of EncodeSerializedState.
func DecodeSerializedState(b []byte) (*SerializedVertexStoreState, error) {
	var s SerializedVertexStoreState
	err := msgpack.Unmarshal(b, &s)
	if err != nil {
		return nil, fmt.Errorf("could not decode vertex store state: %w", err)
	}
	return &s, nil
}
