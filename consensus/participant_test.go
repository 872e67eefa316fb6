package consensus_test

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/onflow/chainbft/config"
	"github.com/onflow/chainbft/consensus"
	"github.com/onflow/chainbft/consensus/bft/helper"
	"github.com/onflow/chainbft/consensus/bft/mocks"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/consensus/bft/signature"
	"github.com/onflow/chainbft/engine/consensus/epochmgr"
	epochmock "github.com/onflow/chainbft/engine/consensus/epochmgr/mock"
	"github.com/onflow/chainbft/ledger"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/module/irrecoverable"
	"github.com/onflow/chainbft/module/metrics"
	bstorage "github.com/onflow/chainbft/storage/badger"
	"github.com/onflow/chainbft/utils/unittest"
)

func TestParticipant(t *testing.T) {
	suite.Run(t, new(ParticipantSuite))
}

// ParticipantSuite runs a validator of epoch 1 on a fresh badger database.
type ParticipantSuite struct {
	suite.Suite

	db        *badger.DB
	storages  *bstorage.All
	hasher    hash.Hasher
	signers   []*signature.Signer
	rootProof model.LedgerProof
}

func (s *ParticipantSuite) SetupTest() {
	s.db = unittest.BadgerDB(s.T(), unittest.TempDir(s.T()))
	s.storages = bstorage.InitAll(metrics.NewNoopCollector(), s.db)
	s.hasher = hash.NewSha3Hasher()
	s.signers = helper.SignersFixture(s.T(), 4)
	s.rootProof = helper.EpochProofFixture(1, helper.ValidatorSetFixture(s.T(), s.signers))
}

func (s *ParticipantSuite) TearDownTest() {
	require.NoError(s.T(), s.db.Close())
}

func (s *ParticipantSuite) TestRecover_Bootstrap() {
	last, epochChange, err := consensus.Recover(unittest.Logger(), s.hasher, s.storages.LedgerProofs, s.rootProof)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.rootProof, last)
	assert.Equal(s.T(), uint64(1), epochChange.Epoch)
	assert.Equal(s.T(), s.rootProof, epochChange.Proof)

	stored, err := s.storages.LedgerProofs.Last()
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.rootProof, *stored)
}

func (s *ParticipantSuite) TestRecover_RootProofMustEndEpoch() {
	proof := s.rootProof
	proof.Header.NextEpoch = nil
	_, _, err := consensus.Recover(unittest.Logger(), s.hasher, s.storages.LedgerProofs, proof)
	assert.Error(s.T(), err)
}

// TestRecover_WithinEpoch checks that a node restarting in the middle of an epoch continues
// with the configuration of that epoch.
func (s *ParticipantSuite) TestRecover_WithinEpoch() {
	_, _, err := consensus.Recover(unittest.Logger(), s.hasher, s.storages.LedgerProofs, s.rootProof)
	require.NoError(s.T(), err)

	committed := s.rootProof
	committed.Header.Epoch = 1
	committed.Header.Round = 5
	committed.Header.Accumulator.StateVersion = 110
	committed.Header.NextEpoch = nil
	require.NoError(s.T(), s.storages.LedgerProofs.StoreLast(committed))

	last, epochChange, err := consensus.Recover(unittest.Logger(), s.hasher, s.storages.LedgerProofs, s.rootProof)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), committed, last)
	assert.Equal(s.T(), uint64(1), epochChange.Epoch)
	assert.Equal(s.T(), s.rootProof, epochChange.Proof)
}

func (s *ParticipantSuite) TestCreateNotifier() {
	checkpoints := mocks.NewVertexStoreConsumer(s.T())
	var committed []model.BFTCommittedUpdate
	notifier := consensus.CreateNotifier(unittest.Logger(), checkpoints, func(update model.BFTCommittedUpdate) error {
		committed = append(committed, update)
		return nil
	})

	state := helper.GenesisStateFixture(s.T(), s.hasher, 1, helper.ValidatorSetFixture(s.T(), s.signers))
	update := model.BFTCommittedUpdate{State: state}
	checkpoints.On("OnCommitted", update).Return(nil).Once()
	require.NoError(s.T(), notifier.OnCommitted(update))
	assert.Equal(s.T(), []model.BFTCommittedUpdate{update}, committed)
}

func (s *ParticipantSuite) TestNewParticipant() {
	self := s.signers[0].ValidatorID()
	eventProcessor := mocks.NewEventProcessor(s.T())
	syncProcessor := mocks.NewSyncProcessor(s.T())
	factory := epochmock.NewEpochComponentsFactory(s.T())
	factory.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		assert.Equal(s.T(), uint64(1), args.Get(0).(epochmgr.EpochContext).Epoch)
	}).Return(eventProcessor, syncProcessor, nil).Once()

	participant, err := consensus.NewParticipant(
		unittest.Logger(),
		config.DefaultConfig(),
		prometheus.NewRegistry(),
		&self,
		s.hasher,
		s.signers[0],
		signature.NewVerifier(),
		s.db,
		ledger.TransactionLogConfig{EpochMaxRound: 100, Validators: helper.ValidatorSetFixture(s.T(), s.signers).Validators()},
		factory,
		mocks.NewLedgerStatusUpdateDispatcher(s.T()),
		mocks.NewVerticesResponseDispatcher(s.T()),
		s.rootProof,
	)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), epochmgr.ValidatingInCurrentEpoch, participant.EpochManager.ValidationStatus())
	assert.Equal(s.T(), s.rootProof, participant.Ledger.CurrentProof())

	eventProcessor.On("Start").Return(nil).Once()
	ctx, cancel := irrecoverable.NewMockSignalerContextWithCancel(s.T(), context.Background())
	participant.Runner.Start(ctx)
	unittest.RequireCloseBefore(s.T(), participant.Runner.Ready(), time.Second, "participant did not start")
	defer func() {
		cancel()
		unittest.RequireCloseBefore(s.T(), participant.Runner.Done(), time.Second, "participant did not stop")
	}()

	vote := &model.Vote{
		Author:   s.signers[1].ValidatorID(),
		VoteData: model.VoteData{Proposed: model.Header{Round: 1, Ledger: model.LedgerHeader{Epoch: 1, Round: 1}}},
	}
	eventProcessor.On("ProcessVote", vote).Return(nil).Once()
	participant.Runner.SubmitConsensusEvent(vote)
	require.Eventually(s.T(), func() bool { return participant.Runner.Processed() == 1 }, time.Second, 10*time.Millisecond)
}
