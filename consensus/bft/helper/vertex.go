package helper

import (
	"github.com/stretchr/testify/require"

	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/consensus/bft/signature"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/utils/logging"
	"github.com/onflow/chainbft/utils/unittest"
)

// EpochProofFixture returns a proof which ends the epoch preceding `epoch` and starts
// `epoch` with the given validators.
func EpochProofFixture(epoch uint64, validators *model.ValidatorSet) model.LedgerProof {
	return model.LedgerProof{
		Header: model.LedgerHeader{
			Epoch: epoch - 1,
			Round: 10,
			Accumulator: model.AccumulatorState{
				StateVersion:    100,
				AccumulatorHash: unittest.HashFixture(),
			},
			StateHash:                     unittest.HashFixture(),
			ConsensusParentRoundTimestamp: 1_000,
			ProposerTimestamp:             1_000,
			NextEpoch: &model.NextEpoch{
				Epoch:      epoch,
				Validators: validators.Validators(),
			},
		},
	}
}

// GenesisStateFixture returns the initial vertex store state of the epoch.
func GenesisStateFixture(t require.TestingT, hasher hash.Hasher, epoch uint64, validators *model.ValidatorSet) *model.VertexStoreState {
	state, err := model.NewVertexStoreStateForNextEpoch(unittest.Logger(), EpochProofFixture(epoch, validators), hasher)
	require.NoError(t, err)
	return state
}

// Chain builds vertices on top of a vertex store state and certifies them. Vertices are
// executed with Execute, so their certified headers match what Ledger produces.
type Chain struct {
	t        require.TestingT
	hasher   hash.Hasher
	proposer model.ValidatorID
	signers  []*signature.Signer

	executed map[hash.Hash]*model.ExecutedVertex
	qcs      map[hash.Hash]*model.QuorumCertificate
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithSigners makes the chain sign every QC with all signers.
func WithSigners(signers ...*signature.Signer) ChainOption {
	return func(c *Chain) {
		c.signers = signers
	}
}

// WithProposer sets the proposer of the created vertices.
func WithProposer(proposer model.ValidatorID) ChainOption {
	return func(c *Chain) {
		c.proposer = proposer
	}
}

// NewChain starts a chain at the root of the state, certified by its highest QC.
func NewChain(t require.TestingT, hasher hash.Hasher, state *model.VertexStoreState, opts ...ChainOption) *Chain {
	c := &Chain{
		t:        t,
		hasher:   hasher,
		proposer: ValidatorIDFixture(),
		executed: make(map[hash.Hash]*model.ExecutedVertex),
		qcs:      make(map[hash.Hash]*model.QuorumCertificate),
	}
	for _, opt := range opts {
		opt(c)
	}
	root := state.Root()
	c.qcs[root.Hash] = state.HighQC().HighestCommittedQC
	c.executed[root.Hash] = &model.ExecutedVertex{
		VertexWithHash: root,
		LedgerHeader:   state.HighQC().HighestCommittedQC.ProposedHeader().Ledger,
	}
	return c
}

// Extend creates and executes a vertex at the round, with a QC to the parent.
func (c *Chain) Extend(parentID hash.Hash, round model.Round, txns ...[]byte) *model.VertexWithHash {
	parentQC := c.QC(parentID)
	vertex, err := model.NewVertex(*parentQC, round, txns, c.proposer, int64(round)*1_000)
	require.NoError(c.t, err)
	v := vertex.WithID(c.hasher)
	c.executed[v.Hash] = Execute(c.hasher, c.executed[parentID].LedgerHeader, v)
	return v
}

// ExtendDirect creates a vertex for the round after its parent's round.
func (c *Chain) ExtendDirect(parentID hash.Hash, txns ...[]byte) *model.VertexWithHash {
	return c.Extend(parentID, c.Executed(parentID).Round().Next(), txns...)
}

// Executed returns the execution result of a vertex created by the chain.
func (c *Chain) Executed(id hash.Hash) *model.ExecutedVertex {
	executed, ok := c.executed[id]
	require.True(c.t, ok, "unknown vertex %x", logging.Hash(id))
	return executed
}

// Header returns the header validators vote for after executing the vertex.
func (c *Chain) Header(id hash.Hash) model.Header {
	return c.Executed(id).Header()
}

// QC returns a QC certifying the vertex. QCs are created once and reused.
func (c *Chain) QC(id hash.Hash) *model.QuorumCertificate {
	if qc, ok := c.qcs[id]; ok {
		return qc
	}
	executed := c.Executed(id)
	voteData := model.NewVoteData(executed.Vertex(), executed.Header())
	sigs := make([]model.TimestampedSignature, 0, len(c.signers))
	for i, signer := range c.signers {
		timestamp := int64(executed.Round())*1_000 + int64(i)
		sig, err := signer.Sign(voteData.ToConsensusVoteHash(c.hasher, timestamp))
		require.NoError(c.t, err)
		sigs = append(sigs, model.TimestampedSignature{Signer: signer.ValidatorID(), Timestamp: timestamp, Signature: sig})
	}
	qc := &model.QuorumCertificate{VoteData: voteData, Signatures: model.NewTimestampedSignatures(sigs...)}
	c.qcs[id] = qc
	return qc
}

// TC returns a timeout certificate of the round signed by all signers.
func (c *Chain) TC(epoch uint64, round model.Round) *model.TimeoutCertificate {
	timeoutHash := c.hasher.HashEncoded(model.VoteTimeout{Round: round, Epoch: epoch})
	sigs := make([]model.TimestampedSignature, 0, len(c.signers))
	for i, signer := range c.signers {
		sig, err := signer.Sign(timeoutHash)
		require.NoError(c.t, err)
		sigs = append(sigs, model.TimestampedSignature{Signer: signer.ValidatorID(), Timestamp: int64(round)*1_000 + int64(i), Signature: sig})
	}
	return &model.TimeoutCertificate{Epoch: epoch, Round: round, Signatures: model.NewTimestampedSignatures(sigs...)}
}
