package vertexstore

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onflow/chainbft/consensus/bft/helper"
	"github.com/onflow/chainbft/consensus/bft/mocks"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/module/metrics"
	"github.com/onflow/chainbft/utils/unittest"
)

type adapterFixture struct {
	chain    *helper.Chain
	genesis  *model.VertexStoreState
	consumer *mocks.VertexStoreConsumer
	adapter  *Adapter
}

func newAdapterFixture(t *testing.T) *adapterFixture {
	hasher := hash.NewSha3Hasher()
	signers := helper.SignersFixture(t, 4)
	genesis := helper.GenesisStateFixture(t, hasher, 1, helper.ValidatorSetFixture(t, signers))
	store, err := New(unittest.Logger(), helper.NewLedger(hasher), hasher, metrics.NewNoopCollector(), DefaultConfig(), genesis)
	require.NoError(t, err)
	consumer := mocks.NewVertexStoreConsumer(t)
	return &adapterFixture{
		chain:    helper.NewChain(t, hasher, genesis),
		genesis:  genesis,
		consumer: consumer,
		adapter:  NewAdapter(store, consumer),
	}
}

func (f *adapterFixture) directChain(t *testing.T, n int) []*model.VertexWithHash {
	parent := f.genesis.Root().Hash
	vertices := make([]*model.VertexWithHash, 0, n)
	for i := 0; i < n; i++ {
		v := f.chain.ExtendDirect(parent)
		vertices = append(vertices, v)
		parent = v.Hash
	}
	return vertices
}

func TestAdapter_InsertVertex(t *testing.T) {
	f := newAdapterFixture(t)
	v1 := f.directChain(t, 1)[0]

	f.consumer.On("OnVertexInserted", mock.MatchedBy(func(update model.BFTInsertUpdate) bool {
		return update.Inserted.VertexHash() == v1.Hash
	})).Return(nil).Once()
	require.NoError(t, f.adapter.InsertVertex(v1))

	// inserting again emits nothing
	require.NoError(t, f.adapter.InsertVertex(v1))
}

func TestAdapter_InsertQc(t *testing.T) {
	f := newAdapterFixture(t)
	vertices := f.directChain(t, 3)
	// three vertices now and one more to commit
	f.consumer.On("OnVertexInserted", mock.Anything).Return(nil).Times(4)
	for _, v := range vertices {
		require.NoError(t, f.adapter.InsertVertex(v))
	}

	t.Run("missing vertex", func(t *testing.T) {
		unknown := f.chain.ExtendDirect(vertices[2].Hash)
		ok, err := f.adapter.InsertQc(f.chain.QC(unknown.Hash))
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("high qc", func(t *testing.T) {
		qc := f.chain.QC(vertices[1].Hash)
		// vertex 1 has a child, so only the QC of vertex 2 is accepted
		ok, err := f.adapter.InsertQc(qc)
		require.NoError(t, err)
		require.True(t, ok)

		qc = f.chain.QC(vertices[2].Hash)
		f.consumer.On("OnHighQCUpdate", mock.MatchedBy(func(update model.BFTHighQCUpdate) bool {
			return update.HighQC.HighestQC == qc
		})).Return(nil).Once()
		ok, err = f.adapter.InsertQc(qc)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("commit", func(t *testing.T) {
		v4 := f.chain.ExtendDirect(vertices[2].Hash)
		require.NoError(t, f.adapter.InsertVertex(v4))

		f.consumer.On("OnCommitted", mock.MatchedBy(func(update model.BFTCommittedUpdate) bool {
			return len(update.Committed) == 2 && update.State.Root().Hash == vertices[1].Hash
		})).Return(nil).Once()
		ok, err := f.adapter.InsertQc(f.chain.QC(v4.Hash))
		require.NoError(t, err)
		require.True(t, ok)
		f.consumer.AssertNotCalled(t, "OnHighQCUpdate", mock.MatchedBy(func(update model.BFTHighQCUpdate) bool {
			return update.HighQC.HighestQC.Round() == 4
		}))
	})
}

func TestAdapter_InsertVertexChain(t *testing.T) {
	f := newAdapterFixture(t)
	vertices := f.directChain(t, 4)

	var events []string
	f.consumer.On("OnHighQCUpdate", mock.Anything).Return(nil).Run(func(mock.Arguments) {
		events = append(events, "high_qc")
	}).Times(3)
	f.consumer.On("OnCommitted", mock.Anything).Return(nil).Run(func(mock.Arguments) {
		events = append(events, "committed")
	}).Once()
	f.consumer.On("OnVertexInserted", mock.Anything).Return(nil).Run(func(mock.Arguments) {
		events = append(events, "inserted")
	}).Times(4)

	require.NoError(t, f.adapter.InsertVertexChain(model.VertexChain{Vertices: vertices}))
	// the QC carried by vertex 4 certifies vertex 3 and commits vertex 1
	require.Equal(t, []string{
		"high_qc", "high_qc", "high_qc", "committed",
		"inserted", "inserted", "inserted", "inserted",
	}, events)
}

func TestAdapter_TimeoutCertificate(t *testing.T) {
	f := newAdapterFixture(t)

	tc := f.chain.TC(1, 1)
	f.consumer.On("OnHighQCUpdate", mock.MatchedBy(func(update model.BFTHighQCUpdate) bool {
		return update.HighQC.HighestTC == tc
	})).Return(nil).Once()
	require.NoError(t, f.adapter.InsertTimeoutCertificate(tc))
	require.NoError(t, f.adapter.InsertTimeoutCertificate(tc))
}

func TestAdapter_TryRebuild(t *testing.T) {
	f := newAdapterFixture(t)
	vertices := f.directChain(t, 2)
	f.consumer.On("OnVertexInserted", mock.Anything).Return(nil).Times(2)
	for _, v := range vertices {
		require.NoError(t, f.adapter.InsertVertex(v))
	}
	state, err := f.adapter.store.State()
	require.NoError(t, err)

	g := newAdapterFixture(t)
	g.consumer.On("OnRebuild", mock.MatchedBy(func(update model.BFTRebuildUpdate) bool {
		return update.State == state
	})).Return(nil).Once()
	require.NoError(t, g.adapter.TryRebuild(state))
	require.True(t, g.adapter.ContainsVertex(vertices[1].Hash))
	require.True(t, g.adapter.HasCommittedVertexOrRootAtOrAboveRound(model.Header{Round: 0, VertexID: unittest.HashFixture()}))
}
