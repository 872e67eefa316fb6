package epochmgr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/onflow/chainbft/consensus/bft/helper"
	"github.com/onflow/chainbft/consensus/bft/mocks"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/consensus/bft/notifications"
	"github.com/onflow/chainbft/consensus/bft/signature"
	"github.com/onflow/chainbft/engine/consensus/epochmgr"
	epochmock "github.com/onflow/chainbft/engine/consensus/epochmgr/mock"
	"github.com/onflow/chainbft/ledger"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/module/irrecoverable"
	"github.com/onflow/chainbft/module/metrics"
	"github.com/onflow/chainbft/storage"
	"github.com/onflow/chainbft/utils/unittest"
)

func TestEpochManager(t *testing.T) {
	suite.Run(t, new(EpochManagerSuite))
}

// EpochManagerSuite runs the epoch manager of a validator of epoch 1 with mocked epoch
// components. The validator set of epoch 2 shares three validators with epoch 1.
type EpochManagerSuite struct {
	suite.Suite

	hasher  hash.Hasher
	signers []*signature.Signer
	self    model.ValidatorID
	epoch1  *model.EpochChange
	epoch2  *model.EpochChange

	safetyStore        *mocks.PersistentSafetyStateStore
	checkpoints        *mocks.VertexStoreCheckpointer
	statusDispatcher   *mocks.LedgerStatusUpdateDispatcher
	responseDispatcher *mocks.VerticesResponseDispatcher
	factory            *epochmock.EpochComponentsFactory
	eventProcessor     *mocks.EventProcessor
	syncProcessor      *mocks.SyncProcessor
	config             epochmgr.Config

	// epoch context the factory was called with last
	created epochmgr.EpochContext
}

func (s *EpochManagerSuite) SetupTest() {
	s.hasher = hash.NewSha3Hasher()
	s.signers = helper.SignersFixture(s.T(), 5)
	s.self = s.signers[0].ValidatorID()
	s.epoch1 = s.epochChange(1, s.signers[:4])
	s.epoch2 = s.epochChange(2, append([]*signature.Signer{s.signers[4]}, s.signers[:3]...))

	s.safetyStore = mocks.NewPersistentSafetyStateStore(s.T())
	s.safetyStore.On("Get").Return(nil, storage.ErrNotFound).Maybe()
	s.checkpoints = mocks.NewVertexStoreCheckpointer(s.T())
	s.checkpoints.On("Load").Return(nil, storage.ErrNotFound).Maybe()
	s.statusDispatcher = mocks.NewLedgerStatusUpdateDispatcher(s.T())
	s.responseDispatcher = mocks.NewVerticesResponseDispatcher(s.T())
	s.eventProcessor = mocks.NewEventProcessor(s.T())
	s.syncProcessor = mocks.NewSyncProcessor(s.T())
	s.factory = epochmock.NewEpochComponentsFactory(s.T())
	s.config = epochmgr.DefaultConfig()
}

func (s *EpochManagerSuite) epochChange(epoch uint64, signers []*signature.Signer) *model.EpochChange {
	validators := helper.ValidatorSetFixture(s.T(), signers)
	epochChange, err := ledger.EpochChangeFromProof(unittest.Logger(), s.hasher, helper.EpochProofFixture(epoch, validators))
	require.NoError(s.T(), err)
	return epochChange
}

// expectComponents makes the next call to the factory return the given processors.
func (s *EpochManagerSuite) expectComponents(eventProcessor *mocks.EventProcessor, syncProcessor *mocks.SyncProcessor) {
	s.factory.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		s.created = args.Get(0).(epochmgr.EpochContext)
	}).Return(eventProcessor, syncProcessor, nil).Once()
}

// newManager creates an epoch manager in epoch 1. If the node validates in epoch 1, the suite's
// processors are its components.
func (s *EpochManagerSuite) newManager(self *model.ValidatorID) *epochmgr.EpochManager {
	if self != nil && s.epoch1.Configuration.ValidatorSet.Contains(*self) {
		s.expectComponents(s.eventProcessor, s.syncProcessor)
	}
	collector := metrics.NewNoopCollector()
	manager, err := epochmgr.New(
		unittest.Logger(),
		self,
		s.hasher,
		s.signers[0],
		signature.NewVerifier(),
		helper.NewLedger(s.hasher),
		s.safetyStore,
		s.checkpoints,
		notifications.NewNoopConsumer(),
		s.statusDispatcher,
		s.responseDispatcher,
		s.factory,
		collector,
		collector,
		collector,
		s.config,
		s.epoch1.Proof,
		s.epoch1,
	)
	require.NoError(s.T(), err)
	return manager
}

func vote(epoch uint64, round model.Round) *model.Vote {
	return &model.Vote{
		Author: model.ValidatorID{byte(round)},
		VoteData: model.VoteData{Proposed: model.Header{
			Round:  round,
			Ledger: model.LedgerHeader{Epoch: epoch, Round: round},
		}},
	}
}

func (s *EpochManagerSuite) TestNew_ActiveValidator() {
	manager := s.newManager(&s.self)

	assert.Equal(s.T(), epochmgr.ValidatingInCurrentEpoch, manager.ValidationStatus())
	assert.Equal(s.T(), uint64(1), manager.CurrentEpoch())
	assert.Equal(s.T(), s.self, s.created.Self)
	assert.Equal(s.T(), uint64(1), s.created.Epoch)
	assert.Equal(s.T(), model.Round(1), s.created.InitialRoundUpdate.Round)
	assert.Equal(s.T(), s.epoch1.Configuration.ProposerElection.Proposer(1), s.created.InitialRoundUpdate.Leader)
	assert.Equal(s.T(), s.epoch1.Configuration.ProposerElection.Proposer(2), s.created.InitialRoundUpdate.NextLeader)
	assert.Equal(s.T(), model.InitialSafetyState(s.self, 1), s.created.SafetyRules.State())
	assert.Equal(s.T(), s.epoch1.Configuration.VertexStoreState.Root().Hash, s.created.VertexStore.Root().Hash)

	s.eventProcessor.On("Start").Return(nil).Once()
	require.NoError(s.T(), manager.Start())
}

func (s *EpochManagerSuite) TestNew_NonValidator() {
	s.Run("without validator identity", func() {
		manager := s.newManager(nil)
		assert.Equal(s.T(), epochmgr.NotConfiguredAsValidator, manager.ValidationStatus())
		require.NoError(s.T(), manager.Start())
		require.NoError(s.T(), manager.ProcessConsensusEvent(vote(1, 3)))
	})

	s.Run("outside of the validator set", func() {
		outsider := s.signers[4].ValidatorID()
		manager := s.newManager(&outsider)
		assert.Equal(s.T(), epochmgr.NotValidatingInCurrentEpoch, manager.ValidationStatus())
		require.NoError(s.T(), manager.ProcessConsensusEvent(vote(1, 3)))
		require.NoError(s.T(), manager.ProcessGetVerticesRequest(s.self, model.GetVerticesRequest{
			VertexID: s.epoch1.Configuration.VertexStoreState.Root().Hash,
			Count:    1,
		}))
	})
}

func (s *EpochManagerSuite) TestProcessConsensusEvent() {
	manager := s.newManager(&s.self)

	current := vote(1, 3)
	s.eventProcessor.On("ProcessVote", current).Return(nil).Once()
	require.NoError(s.T(), manager.ProcessConsensusEvent(current))

	chain := helper.NewChain(s.T(), s.hasher, s.epoch1.Configuration.VertexStoreState)
	v1 := chain.ExtendDirect(s.epoch1.Configuration.VertexStoreState.Root().Hash)
	proposal := &model.Proposal{Vertex: v1.Vertex}
	s.eventProcessor.On("ProcessProposal", proposal).Return(nil).Once()
	require.NoError(s.T(), manager.ProcessConsensusEvent(proposal))

	// past epochs are dropped
	require.NoError(s.T(), manager.ProcessConsensusEvent(vote(0, 7)))
	assert.Equal(s.T(), 0, manager.QueuedEvents())
}

// TestEpochChange_ReplaysHighestQueuedRound queues events of the next epoch and checks that
// only those of the highest round are processed after the transition.
func (s *EpochManagerSuite) TestEpochChange_ReplaysHighestQueuedRound() {
	manager := s.newManager(&s.self)

	lower := vote(2, 3)
	highest1, highest2 := vote(2, 5), vote(2, 5)
	highest2.Author = model.ValidatorID{42}
	middle := vote(2, 4)
	for _, event := range []model.ConsensusEvent{lower, highest1, middle, highest2, vote(3, 9)} {
		require.NoError(s.T(), manager.ProcessConsensusEvent(event))
	}
	assert.Equal(s.T(), 5, manager.QueuedEvents())

	// all validators of both epochs except the node itself learn about the new epoch
	status := model.LedgerStatusUpdate{Proof: s.epoch2.GenesisProof()}
	for _, signer := range s.signers[1:] {
		s.statusDispatcher.On("DispatchLedgerStatusUpdate", signer.ValidatorID(), status).Once()
	}

	eventProcessor2 := mocks.NewEventProcessor(s.T())
	s.expectComponents(eventProcessor2, mocks.NewSyncProcessor(s.T()))
	eventProcessor2.On("Start").Return(nil).Once()
	eventProcessor2.On("ProcessVote", highest1).Return(nil).Once()
	eventProcessor2.On("ProcessVote", highest2).Return(nil).Once()

	err := manager.ProcessLedgerUpdate(model.LedgerUpdate{Proof: s.epoch2.Proof, EpochChange: s.epoch2})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), uint64(2), manager.CurrentEpoch())
	assert.Equal(s.T(), uint64(2), s.created.Epoch)
	assert.Equal(s.T(), epochmgr.ValidatingInCurrentEpoch, manager.ValidationStatus())
	// the event of epoch 3 stays queued
	assert.Equal(s.T(), 1, manager.QueuedEvents())
	eventProcessor2.AssertNotCalled(s.T(), "ProcessVote", lower)
	eventProcessor2.AssertNotCalled(s.T(), "ProcessVote", middle)
}

func (s *EpochManagerSuite) TestEpochChange_NotValidatingInNextEpoch() {
	self := s.signers[3].ValidatorID()
	manager := s.newManager(&self)

	status := model.LedgerStatusUpdate{Proof: s.epoch2.GenesisProof()}
	for _, signer := range []*signature.Signer{s.signers[0], s.signers[1], s.signers[2], s.signers[4]} {
		s.statusDispatcher.On("DispatchLedgerStatusUpdate", signer.ValidatorID(), status).Once()
	}
	require.NoError(s.T(), manager.ProcessLedgerUpdate(model.LedgerUpdate{Proof: s.epoch2.Proof, EpochChange: s.epoch2}))
	assert.Equal(s.T(), epochmgr.NotValidatingInCurrentEpoch, manager.ValidationStatus())

	// consensus events of the epoch are ignored
	require.NoError(s.T(), manager.ProcessConsensusEvent(vote(2, 1)))

	// the node does not announce the following epoch, as it did not validate in epoch 2
	epoch3 := s.epochChange(3, s.signers[:4])
	eventProcessor3 := mocks.NewEventProcessor(s.T())
	eventProcessor3.On("Start").Return(nil).Once()
	s.expectComponents(eventProcessor3, mocks.NewSyncProcessor(s.T()))
	require.NoError(s.T(), manager.ProcessLedgerUpdate(model.LedgerUpdate{Proof: epoch3.Proof, EpochChange: epoch3}))
	assert.Equal(s.T(), epochmgr.ValidatingInCurrentEpoch, manager.ValidationStatus())
	assert.Equal(s.T(), uint64(3), s.created.Epoch)
}

func (s *EpochManagerSuite) TestEpochChange_NonConsecutiveEpochIsException() {
	manager := s.newManager(&s.self)

	epoch3 := s.epochChange(3, s.signers[:4])
	err := manager.ProcessLedgerUpdate(model.LedgerUpdate{Proof: epoch3.Proof, EpochChange: epoch3})
	require.True(s.T(), irrecoverable.IsException(err), err)
	assert.Equal(s.T(), uint64(1), manager.CurrentEpoch())
}

func (s *EpochManagerSuite) TestLedgerUpdate_ForwardedToSync() {
	manager := s.newManager(&s.self)

	update := model.LedgerUpdate{Proof: model.LedgerProof{Header: model.LedgerHeader{Epoch: 1, Round: 4}}}
	s.syncProcessor.On("ProcessLedgerUpdate", update).Return(nil).Once()
	require.NoError(s.T(), manager.ProcessLedgerUpdate(update))
}

func (s *EpochManagerSuite) TestFutureEpochQueueIsBounded() {
	s.config.MaxQueuedEvents = 2
	manager := s.newManager(&s.self)

	for round := model.Round(1); round <= 4; round++ {
		require.NoError(s.T(), manager.ProcessConsensusEvent(vote(2, round)))
	}
	assert.Equal(s.T(), 2, manager.QueuedEvents())
}

func (s *EpochManagerSuite) TestEventsFilteredByEpoch() {
	manager := s.newManager(&s.self)

	timeout := model.ScheduledLocalTimeout{RoundUpdate: model.RoundUpdate{Round: 3}}
	s.eventProcessor.On("ProcessLocalTimeout", timeout).Return(nil).Once()
	require.NoError(s.T(), manager.ProcessLocalTimeout(model.Epoched[model.ScheduledLocalTimeout]{Epoch: 0, Event: timeout}))
	require.NoError(s.T(), manager.ProcessLocalTimeout(model.Epoched[model.ScheduledLocalTimeout]{Epoch: 2, Event: timeout}))
	require.NoError(s.T(), manager.ProcessLocalTimeout(model.Epoched[model.ScheduledLocalTimeout]{Epoch: 1, Event: timeout}))

	requestTimeout := model.VertexRequestTimeout{VertexID: unittest.HashFixture()}
	s.syncProcessor.On("ProcessVertexRequestTimeout", requestTimeout).Return(nil).Once()
	require.NoError(s.T(), manager.ProcessVertexRequestTimeout(model.Epoched[model.VertexRequestTimeout]{Epoch: 0, Event: requestTimeout}))
	require.NoError(s.T(), manager.ProcessVertexRequestTimeout(model.Epoched[model.VertexRequestTimeout]{Epoch: 1, Event: requestTimeout}))

	roundUpdate := model.RoundUpdate{Round: 4}
	s.eventProcessor.On("ProcessRoundUpdate", roundUpdate).Return(nil).Once()
	require.NoError(s.T(), manager.ProcessRoundUpdate(model.Epoched[model.RoundUpdate]{Epoch: 0, Event: roundUpdate}))
	require.NoError(s.T(), manager.ProcessRoundUpdate(model.Epoched[model.RoundUpdate]{Epoch: 1, Event: roundUpdate}))

	rejected := model.ProposalRejected{Round: 4, Reason: "invalid"}
	s.eventProcessor.On("ProcessProposalRejected", rejected).Return(nil).Once()
	require.NoError(s.T(), manager.ProcessProposalRejected(model.Epoched[model.ProposalRejected]{Epoch: 2, Event: rejected}))
	require.NoError(s.T(), manager.ProcessProposalRejected(model.Epoched[model.ProposalRejected]{Epoch: 1, Event: rejected}))

	resolution := model.TimeoutQuorumDelayedResolution{Round: 4, MillisDelay: 100}
	s.eventProcessor.On("ProcessTimeoutQuorumDelayedResolution", resolution).Return(nil).Once()
	require.NoError(s.T(), manager.ProcessTimeoutQuorumDelayedResolution(model.Epoched[model.TimeoutQuorumDelayedResolution]{Epoch: 0, Event: resolution}))
	require.NoError(s.T(), manager.ProcessTimeoutQuorumDelayedResolution(model.Epoched[model.TimeoutQuorumDelayedResolution]{Epoch: 1, Event: resolution}))

	stale := model.BFTRebuildUpdate{State: helper.GenesisStateFixture(s.T(), s.hasher, 3, s.epoch1.Configuration.ValidatorSet)}
	require.NoError(s.T(), manager.ProcessBFTRebuildUpdate(stale))
	current := model.BFTRebuildUpdate{State: s.epoch1.Configuration.VertexStoreState}
	s.eventProcessor.On("ProcessBFTRebuildUpdate", current).Return(nil).Once()
	require.NoError(s.T(), manager.ProcessBFTRebuildUpdate(current))
}

func (s *EpochManagerSuite) TestSyncMessagesRestrictedToValidators() {
	manager := s.newManager(&s.self)
	validator := s.signers[1].ValidatorID()
	outsider := s.signers[4].ValidatorID()
	root := s.epoch1.Configuration.VertexStoreState.Root()

	s.Run("requests", func() {
		request := model.GetVerticesRequest{VertexID: root.Hash, Count: 1}
		s.responseDispatcher.On("DispatchGetVerticesResponse", validator, model.GetVerticesResponse{
			Vertices: []*model.Vertex{root.Vertex},
		}).Once()
		require.NoError(s.T(), manager.ProcessGetVerticesRequest(outsider, request))
		require.NoError(s.T(), manager.ProcessGetVerticesRequest(validator, request))
	})

	s.Run("responses", func() {
		response := model.GetVerticesResponse{Vertices: []*model.Vertex{root.Vertex}}
		s.syncProcessor.On("ProcessGetVerticesResponse", validator, response).Return(nil).Once()
		require.NoError(s.T(), manager.ProcessGetVerticesResponse(outsider, response))
		require.NoError(s.T(), manager.ProcessGetVerticesResponse(validator, response))
	})

	s.Run("error responses", func() {
		current := model.GetVerticesErrorResponse{HighQC: s.epoch1.Configuration.VertexStoreState.HighQC()}
		stale := model.GetVerticesErrorResponse{HighQC: helper.GenesisStateFixture(s.T(), s.hasher, 3, s.epoch1.Configuration.ValidatorSet).HighQC()}
		s.syncProcessor.On("ProcessGetVerticesErrorResponse", validator, current).Return(nil).Once()
		require.NoError(s.T(), manager.ProcessGetVerticesErrorResponse(validator, stale))
		require.NoError(s.T(), manager.ProcessGetVerticesErrorResponse(outsider, current))
		require.NoError(s.T(), manager.ProcessGetVerticesErrorResponse(validator, current))
	})
}

// checkpointFixture returns a vertex store state of epoch 1 holding one vertex above the root.
func (s *EpochManagerSuite) checkpointFixture() (*model.VertexStoreState, *model.VertexWithHash) {
	genesis := s.epoch1.Configuration.VertexStoreState
	chain := helper.NewChain(s.T(), s.hasher, genesis)
	v1 := chain.ExtendDirect(genesis.Root().Hash, unittest.TransactionsFixture(1, 8)...)
	checkpoint, err := genesis.WithVertex(v1)
	require.NoError(s.T(), err)
	return checkpoint, v1
}

func (s *EpochManagerSuite) TestResumeFromCheckpoint() {
	checkpoint, v1 := s.checkpointFixture()
	s.checkpoints = mocks.NewVertexStoreCheckpointer(s.T())
	s.checkpoints.On("Load").Return(checkpoint.ToSerialized(), nil).Once()

	s.newManager(&s.self)
	assert.True(s.T(), s.created.VertexStore.ContainsVertex(v1.Hash))
}

func (s *EpochManagerSuite) TestResumeFromCheckpoint_OtherEpochIgnored() {
	_, v1 := s.checkpointFixture()
	other := helper.GenesisStateFixture(s.T(), s.hasher, 5, s.epoch1.Configuration.ValidatorSet)
	s.checkpoints = mocks.NewVertexStoreCheckpointer(s.T())
	s.checkpoints.On("Load").Return(other.ToSerialized(), nil).Once()

	s.newManager(&s.self)
	assert.False(s.T(), s.created.VertexStore.ContainsVertex(v1.Hash))
	assert.Equal(s.T(), s.epoch1.Configuration.VertexStoreState.Root().Hash, s.created.VertexStore.Root().Hash)
}
