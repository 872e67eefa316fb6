package vertexstore

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/module"
	"github.com/onflow/chainbft/module/irrecoverable"
	"github.com/onflow/chainbft/utils/logging"
)

// reasons a vertex is not inserted
var (
	errAlreadyPresent = errors.New("vertex already present")
	errPrepareFailed  = errors.New("vertex could not be prepared")
	errSizeExceeded   = errors.New("vertex store size limit exceeded")
)

// VertexStore maintains the speculative DAG of uncertified and certified vertices rooted
// at the last committed vertex, together with the highest known certificates.
//
// Vertices are executed lazily: a vertex loaded from a snapshot is only prepared once a
// path through it is requested. Execution results are memoized until the vertex is pruned.
//
// VertexStore is NOT concurrency safe. All calls must be serialized by the caller, which
// is the consensus runner.
type VertexStore struct {
	log     zerolog.Logger
	ledger  bft.Ledger
	hasher  hash.Hasher
	metrics module.VertexStoreMetrics
	config  Config

	root     *model.VertexWithHash
	highQC   model.HighQC
	vertices map[hash.Hash]*model.VertexWithHash
	// children of each vertex with at least one child, including the root
	children map[hash.Hash]map[hash.Hash]struct{}
	executed map[hash.Hash]*model.ExecutedVertex

	serializedSizeBytes int
}

// New creates a vertex store resuming from the given state. The vertices of the state are
// not executed until they are needed.
// No errors are expected during normal operation.
func New(
	log zerolog.Logger,
	ledger bft.Ledger,
	hasher hash.Hasher,
	metrics module.VertexStoreMetrics,
	config Config,
	initialState *model.VertexStoreState,
) (*VertexStore, error) {
	s := &VertexStore{
		log:     log.With().Str("component", "vertex_store").Logger(),
		ledger:  ledger,
		hasher:  hasher,
		metrics: metrics,
		config:  config,
	}
	serialized, err := model.EncodeSerializedState(initialState.ToSerialized())
	if err != nil {
		return nil, irrecoverable.NewException(err)
	}
	s.resetToState(initialState, serialized)
	return s, nil
}

func (s *VertexStore) resetToState(state *model.VertexStoreState, serialized []byte) {
	s.root = state.Root()
	s.highQC = state.HighQC()
	s.vertices = make(map[hash.Hash]*model.VertexWithHash)
	s.children = make(map[hash.Hash]map[hash.Hash]struct{})
	s.executed = make(map[hash.Hash]*model.ExecutedVertex)

	for _, v := range state.Vertices() {
		s.vertices[v.Hash] = v
		s.addChild(v.ParentVertexID(), v.Hash)
	}
	s.trackSerializedSize(serialized)
}

// TryRebuild replaces the content of the store with the given state, provided every vertex
// of the state can be executed again.
// Expected error returns during normal operations:
//   - model.RebuildError with kind VertexStoreSizeExceeded if the state exceeds the size limit
//   - model.RebuildError with kind VertexExecutionError if a vertex could not be prepared
//
// The store is left unchanged on error.
func (s *VertexStore) TryRebuild(state *model.VertexStoreState) (*model.BFTRebuildUpdate, error) {
	serialized, err := model.EncodeSerializedState(state.ToSerialized())
	if err != nil {
		return nil, irrecoverable.NewException(err)
	}
	if len(serialized) > s.config.MaxSerializedSizeBytes {
		s.metrics.SizeLimitExceeded()
		s.log.Error().
			Int("serialized_size", len(serialized)).
			Int("max_serialized_size", s.config.MaxSerializedSizeBytes).
			Msg("refusing to rebuild vertex store from an oversized state")
		return nil, model.RebuildError{Kind: model.VertexStoreSizeExceeded}
	}

	// the state is expected to be a single chain
	executed := make([]*model.ExecutedVertex, 0, len(state.Vertices()))
	for _, v := range state.Vertices() {
		e, err := s.ledger.Prepare(executed, v)
		if model.IsPrepareRejectedError(err) {
			s.log.Error().Err(err).
				Hex("vertex_id", logging.Hash(v.Hash)).
				Uint64("round", uint64(v.Round())).
				Msg("refusing to rebuild vertex store from a state which can not be executed")
			return nil, model.RebuildError{Kind: model.VertexExecutionError}
		}
		if err != nil {
			return nil, irrecoverable.NewExceptionf("could not prepare vertex %s: %w", v.Hash, err)
		}
		executed = append(executed, e)
	}

	s.resetToState(state, serialized)
	for _, e := range executed {
		s.executed[e.VertexHash()] = e
	}

	s.metrics.VertexCount(len(s.vertices))
	s.metrics.Rebuilt()
	return &model.BFTRebuildUpdate{State: state, SerializedState: serialized}, nil
}

// InsertQc inserts a QC for a vertex which is already in the store and commits the vertices
// it certifies as committed.
// No errors are expected during normal operation.
func (s *VertexStore) InsertQc(qc *model.QuorumCertificate) (InsertQcResult, error) {
	certified := qc.ProposedHeader().VertexID
	if !s.ContainsVertex(certified) {
		return QcVertexMissing{}, nil
	}
	if len(s.children[certified]) > 0 {
		return QcIgnored{}, nil
	}

	isHighQC := qc.Round() > s.highQC.HighestQC.Round()
	if isHighQC {
		s.highQC = s.highQC.WithHighestQC(qc)
	}

	var committedUpdate *CommittedUpdate
	if committed := qc.CommittedHeader(); committed != nil && committed.Round > s.root.Round() {
		update, err := s.commit(*committed, qc)
		if err != nil {
			return nil, fmt.Errorf("could not commit %s: %w", committed, err)
		}
		committedUpdate = update
	}

	s.metrics.VertexCount(len(s.vertices))

	if !isHighQC && committedUpdate == nil {
		return QcIgnored{}, nil
	}

	state, serialized, err := s.state()
	if err != nil {
		return nil, err
	}
	// a QC can push the state slightly above the size limit, which is accepted
	s.trackSerializedSize(serialized)

	return &QcInserted{
		HighQC:          state.HighQC(),
		State:           state,
		SerializedState: serialized,
		CommittedUpdate: committedUpdate,
	}, nil
}

// commit makes the vertex of the header the new root and prunes every vertex which does
// not descend from it. Pruning runs from the new root back to the previous root, keeping the
// child on the committed path at each step. The previous root is pruned last, as pruning
// never descends into the current root.
func (s *VertexStore) commit(header model.Header, commitQC *model.QuorumCertificate) (*CommittedUpdate, error) {
	tip, ok := s.vertices[header.VertexID]
	if !ok {
		return nil, irrecoverable.NewExceptionf("committed vertex %s is not in the store", header.VertexID)
	}

	prevRoot := s.root
	s.root = tip
	s.highQC = s.highQC.WithHighestCommittedQC(commitQC)
	path, err := s.GetPathFromRoot(tip.Hash)
	if err != nil {
		return nil, err
	}
	var keep *hash.Hash
	for i := len(path) - 1; i >= 0; i-- {
		id := path[i].VertexHash()
		s.removeVertexAndPrune(id, keep)
		keep = &id
	}
	s.removeVertexAndPrune(prevRoot.Hash, nil)

	s.metrics.VerticesCommitted(len(path))
	s.log.Debug().
		Hex("root_id", logging.Hash(tip.Hash)).
		Uint64("root_round", uint64(tip.Round())).
		Int("committed", len(path)).
		Msg("committed vertices")

	return &CommittedUpdate{Committed: path, HighQC: s.highQC}, nil
}

func (s *VertexStore) removeVertexAndPrune(id hash.Hash, skip *hash.Hash) {
	if v, ok := s.vertices[id]; ok {
		delete(s.vertices, id)
		s.removeChild(v.ParentVertexID(), id)
	}
	delete(s.executed, id)

	if s.root.Hash == id {
		return
	}

	children := s.children[id]
	delete(s.children, id)
	for child := range children {
		if skip != nil && child == *skip {
			continue
		}
		s.removeVertexAndPrune(child, nil)
	}
}

// InsertTimeoutCertificate replaces the highest TC if the TC is above the highest known round.
// No errors are expected during normal operation.
func (s *VertexStore) InsertTimeoutCertificate(tc *model.TimeoutCertificate) (InsertTcResult, error) {
	if tc.Round <= s.highQC.HighestRound() {
		return TcIgnored{}, nil
	}
	s.highQC = s.highQC.WithHighestTC(tc)

	state, serialized, err := s.state()
	if err != nil {
		return nil, err
	}
	// like QCs, TCs can push the state slightly above the size limit
	s.trackSerializedSize(serialized)
	return &TcInserted{HighQC: state.HighQC(), SerializedState: serialized}, nil
}

// InsertVertex executes the vertex and inserts it. Returns (nil, nil) if the vertex was not
// inserted because it is already present, would exceed the size limit or could not be
// prepared on top of the committed ledger.
// The parent must be in the store, callers check ContainsVertex first. Inserting an orphan
// returns a model.MissingParentError, which is a symptom of a bug.
func (s *VertexStore) InsertVertex(vertex *model.VertexWithHash) (*model.BFTInsertUpdate, error) {
	update, err := s.insertVertex(vertex)
	if errors.Is(err, errAlreadyPresent) || errors.Is(err, errPrepareFailed) || errors.Is(err, errSizeExceeded) {
		return nil, nil
	}
	return update, err
}

func (s *VertexStore) insertVertex(vertex *model.VertexWithHash) (*model.BFTInsertUpdate, error) {
	if _, ok := s.vertices[vertex.Hash]; ok {
		return nil, errAlreadyPresent
	}
	parentID := vertex.ParentVertexID()
	if !s.ContainsVertex(parentID) {
		return nil, irrecoverable.NewException(model.MissingParentError{ParentID: parentID})
	}

	// check the size before spending time on execution
	state, _, err := s.state()
	if err != nil {
		return nil, err
	}
	postInsertState, err := state.WithVertex(vertex)
	if err != nil {
		return nil, irrecoverable.NewExceptionf("could not add vertex to state: %w", err)
	}
	postInsertSerialized, err := model.EncodeSerializedState(postInsertState.ToSerialized())
	if err != nil {
		return nil, irrecoverable.NewException(err)
	}
	if len(postInsertSerialized) > s.config.MaxSerializedSizeBytes {
		s.metrics.SizeLimitExceeded()
		s.log.Warn().
			Hex("vertex_id", logging.Hash(vertex.Hash)).
			Int("serialized_size", len(postInsertSerialized)).
			Msg("vertex does not fit into the vertex store")
		return nil, errSizeExceeded
	}

	previous, err := s.GetPathFromRoot(parentID)
	if err != nil {
		return nil, err
	}
	executed, err := s.ledger.Prepare(previous, vertex)
	if model.IsPrepareRejectedError(err) {
		s.log.Debug().Err(err).Hex("vertex_id", logging.Hash(vertex.Hash)).Msg("vertex not inserted")
		return nil, errPrepareFailed
	}
	if err != nil {
		return nil, irrecoverable.NewExceptionf("could not prepare vertex %s: %w", vertex.Hash, err)
	}

	s.vertices[vertex.Hash] = vertex
	s.executed[vertex.Hash] = executed
	s.addChild(parentID, vertex.Hash)
	s.trackSerializedSize(postInsertSerialized)

	s.metrics.VertexCount(len(s.vertices))
	if len(s.children[parentID]) > 1 {
		s.metrics.ForkInserted()
	}
	if !vertex.Vertex.HasDirectParent() {
		s.metrics.IndirectParentInserted()
	}

	return &model.BFTInsertUpdate{Inserted: executed, SerializedState: postInsertSerialized}, nil
}

// InsertVertexChain inserts the QC to parent and the vertex itself for every vertex of the
// chain. Insertion stops at the first QC whose vertex is missing or at the first vertex
// exceeding the size limit. A partially inserted chain is not an error.
// No errors are expected during normal operation.
func (s *VertexStore) InsertVertexChain(chain model.VertexChain) (*InsertVertexChainResult, error) {
	result := &InsertVertexChainResult{}
	for _, v := range chain.Vertices {
		qcResult, err := s.InsertQc(&v.Vertex.QCToParent)
		if err != nil {
			return nil, fmt.Errorf("could not insert qc of vertex %s: %w", v.Hash, err)
		}
		switch r := qcResult.(type) {
		case QcVertexMissing:
			return result, nil
		case *QcInserted:
			result.InsertedQCs = append(result.InsertedQCs, r)
		case QcIgnored:
		default:
			panic(fmt.Sprintf("unexpected insert qc result %T", r))
		}

		update, err := s.insertVertex(v)
		switch {
		case errors.Is(err, errAlreadyPresent), errors.Is(err, errPrepareFailed):
			continue
		case errors.Is(err, errSizeExceeded):
			return result, nil
		case err != nil:
			return nil, fmt.Errorf("could not insert vertex %s: %w", v.Hash, err)
		}
		result.InsertUpdates = append(result.InsertUpdates, update)
	}
	return result, nil
}

// GetExecutedVertex returns the executed vertex, preparing it first if it was not executed
// yet. Returns false if the vertex is unknown or could not be prepared. The root is never
// returned.
// No errors are expected during normal operation.
func (s *VertexStore) GetExecutedVertex(id hash.Hash) (*model.ExecutedVertex, bool, error) {
	if executed, ok := s.executed[id]; ok {
		return executed, true, nil
	}
	vertex, ok := s.vertices[id]
	if !ok {
		return nil, false, nil
	}

	var previous []*model.ExecutedVertex
	if vertex.Hash != vertex.ParentVertexID() {
		var err error
		previous, err = s.GetPathFromRoot(vertex.ParentVertexID())
		if err != nil {
			return nil, false, err
		}
	}
	executed, err := s.ledger.Prepare(previous, vertex)
	if model.IsPrepareRejectedError(err) {
		s.log.Warn().Err(err).
			Hex("vertex_id", logging.Hash(id)).
			Msg("vertex store contains a vertex which could not be executed")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, irrecoverable.NewExceptionf("could not prepare vertex %s: %w", id, err)
	}
	s.executed[id] = executed
	return executed, true, nil
}

// GetPathFromRoot returns the executed ancestors of the vertex, starting with the child of
// the root and ending with the vertex itself. The root is not part of the path. The path is
// cut short at the first vertex which can not be executed.
// No errors are expected during normal operation.
func (s *VertexStore) GetPathFromRoot(id hash.Hash) ([]*model.ExecutedVertex, error) {
	var reversed []*model.ExecutedVertex
	next := id
	for {
		v, ok, err := s.GetExecutedVertex(next)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		reversed = append(reversed, v)
		if v.VertexHash() == v.ParentID() {
			break
		}
		next = v.ParentID()
	}

	path := make([]*model.ExecutedVertex, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path, nil
}

// GetVertices returns `count` vertices, starting with the given vertex and followed by its
// ancestors. The root can be part of the result. Returns false if any of them is missing.
func (s *VertexStore) GetVertices(id hash.Hash, count int) ([]*model.VertexWithHash, bool) {
	result := make([]*model.VertexWithHash, 0, count)
	next := id
	for i := 0; i < count; i++ {
		var v *model.VertexWithHash
		if next == s.root.Hash {
			v = s.root
		} else if found, ok := s.vertices[next]; ok {
			v = found
		} else {
			return nil, false
		}
		result = append(result, v)
		next = v.ParentVertexID()
	}
	return result, true
}

// ContainsVertex returns whether the vertex is the root or one of the uncommitted vertices.
func (s *VertexStore) ContainsVertex(id hash.Hash) bool {
	_, ok := s.vertices[id]
	return ok || s.root.Hash == id
}

func (s *VertexStore) Root() *model.VertexWithHash {
	return s.root
}

func (s *VertexStore) HighQC() model.HighQC {
	return s.highQC
}

// GetCurrentSerializedSizeBytes is the size of the encoded state after the last change.
func (s *VertexStore) GetCurrentSerializedSizeBytes() int {
	return s.serializedSizeBytes
}

// GetCurrentUtilizationRatio is the share of the size limit in use, clamped to [0, 1].
// Proposers use it to throttle the payload of new vertices.
func (s *VertexStore) GetCurrentUtilizationRatio() float64 {
	if s.config.MaxSerializedSizeBytes <= 0 {
		return 1
	}
	ratio := float64(s.serializedSizeBytes) / float64(s.config.MaxSerializedSizeBytes)
	switch {
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1
	default:
		return ratio
	}
}

// State returns a snapshot of the store.
// No errors are expected during normal operation.
func (s *VertexStore) State() (*model.VertexStoreState, error) {
	state, _, err := s.state()
	return state, err
}

func (s *VertexStore) state() (*model.VertexStoreState, []byte, error) {
	var vertices []*model.VertexWithHash
	s.collectDescendants(s.root.Hash, &vertices)
	state, err := model.NewVertexStoreState(s.log, s.highQC, s.root, vertices, s.hasher)
	if err != nil {
		return nil, nil, irrecoverable.NewExceptionf("inconsistent vertex store state: %w", err)
	}
	serialized, err := model.EncodeSerializedState(state.ToSerialized())
	if err != nil {
		return nil, nil, irrecoverable.NewException(err)
	}
	return state, serialized, nil
}

// collectDescendants lists descendants depth first, parents before children. Siblings are
// ordered by hash so that equal stores produce equal states.
func (s *VertexStore) collectDescendants(id hash.Hash, out *[]*model.VertexWithHash) {
	children := maps.Keys(s.children[id])
	slices.SortFunc(children, func(a, b hash.Hash) int { return a.Compare(b) })
	for _, child := range children {
		*out = append(*out, s.vertices[child])
		s.collectDescendants(child, out)
	}
}

func (s *VertexStore) addChild(parent, child hash.Hash) {
	siblings, ok := s.children[parent]
	if !ok {
		siblings = make(map[hash.Hash]struct{})
		s.children[parent] = siblings
	}
	siblings[child] = struct{}{}
}

func (s *VertexStore) removeChild(parent, child hash.Hash) {
	siblings, ok := s.children[parent]
	if !ok {
		return
	}
	delete(siblings, child)
	if len(siblings) == 0 {
		delete(s.children, parent)
	}
}

func (s *VertexStore) trackSerializedSize(serialized []byte) {
	s.serializedSizeBytes = len(serialized)
	s.metrics.SerializedSize(s.serializedSizeBytes)
}
