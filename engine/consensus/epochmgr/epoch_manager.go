package epochmgr

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/consensus/bft/safetyrules"
	"github.com/onflow/chainbft/consensus/bft/synchronization"
	"github.com/onflow/chainbft/consensus/bft/vertexstore"
	"github.com/onflow/chainbft/engine/common/fifoqueue"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/module"
	"github.com/onflow/chainbft/module/irrecoverable"
	"github.com/onflow/chainbft/module/metrics"
	"github.com/onflow/chainbft/storage"
	"github.com/onflow/chainbft/utils/logging"
)

// EpochManager owns the components of the current epoch and routes consensus messages to
// them. On every epoch change, the components of the previous epoch are discarded and the
// components of the next epoch are built from the epoch change. Messages of future epochs are
// queued until the node transitions into their epoch. Stale timeouts and responses are
// recognized by their epoch and ignored.
//
// EpochManager is NOT concurrency safe. All calls must be serialized by the caller, which
// is the consensus runner.
type EpochManager struct {
	log                zerolog.Logger
	self               *model.ValidatorID
	hasher             hash.Hasher
	signer             bft.HashSigner
	verifier           bft.HashVerifier
	ledger             bft.Ledger
	safetyStore        bft.PersistentSafetyStateStore
	checkpoints        bft.VertexStoreCheckpointer
	consumer           bft.VertexStoreConsumer
	statusDispatcher   bft.LedgerStatusUpdateDispatcher
	responseDispatcher bft.VerticesResponseDispatcher
	factory            EpochComponentsFactory
	metrics            module.EpochManagerMetrics
	vertexStoreMetrics module.VertexStoreMetrics
	safetyMetrics      module.SafetyRulesMetrics
	config             Config

	currentLedgerHeader model.LedgerHeader
	lastEpochChange     *model.EpochChange
	validationStatus    ValidationStatus
	validators          map[model.ValidatorID]struct{}

	vertexStore      *vertexstore.Adapter
	eventProcessor   bft.EventProcessor
	syncProcessor    bft.SyncProcessor
	requestProcessor bft.SyncRequestProcessor

	queued      map[uint64]*fifoqueue.FifoQueue[model.ConsensusEvent]
	queuedCount int
}

// New creates the epoch manager and the components of the epoch started by lastEpochChange.
// A node without a validator identity passes a nil `self`, in which case signer may be nil.
// If a vertex store checkpoint of the epoch exists, the epoch resumes from it.
// No errors are expected during normal operation.
func New(
	log zerolog.Logger,
	self *model.ValidatorID,
	hasher hash.Hasher,
	signer bft.HashSigner,
	verifier bft.HashVerifier,
	ledger bft.Ledger,
	safetyStore bft.PersistentSafetyStateStore,
	checkpoints bft.VertexStoreCheckpointer,
	consumer bft.VertexStoreConsumer,
	statusDispatcher bft.LedgerStatusUpdateDispatcher,
	responseDispatcher bft.VerticesResponseDispatcher,
	factory EpochComponentsFactory,
	metrics module.EpochManagerMetrics,
	vertexStoreMetrics module.VertexStoreMetrics,
	safetyMetrics module.SafetyRulesMetrics,
	config Config,
	lastProof model.LedgerProof,
	lastEpochChange *model.EpochChange,
) (*EpochManager, error) {
	if config.MaxQueuedEvents < 1 {
		return nil, fmt.Errorf("max queued events must be positive, got %d", config.MaxQueuedEvents)
	}
	m := &EpochManager{
		log:                 log.With().Str("component", "epoch_manager").Logger(),
		self:                self,
		hasher:              hasher,
		signer:              signer,
		verifier:            verifier,
		ledger:              ledger,
		safetyStore:         safetyStore,
		checkpoints:         checkpoints,
		consumer:            consumer,
		statusDispatcher:    statusDispatcher,
		responseDispatcher:  responseDispatcher,
		factory:             factory,
		metrics:             metrics,
		vertexStoreMetrics:  vertexStoreMetrics,
		safetyMetrics:       safetyMetrics,
		config:              config,
		currentLedgerHeader: lastProof.Header,
		lastEpochChange:     lastEpochChange,
		queued:              make(map[uint64]*fifoqueue.FifoQueue[model.ConsensusEvent]),
	}
	err := m.updateEpochState()
	if err != nil {
		return nil, fmt.Errorf("could not create components of epoch %d: %w", lastEpochChange.NextEpoch(), err)
	}
	err = m.resumeFromCheckpoint()
	if err != nil {
		return nil, fmt.Errorf("could not resume epoch %d from checkpoint: %w", lastEpochChange.NextEpoch(), err)
	}
	return m, nil
}

// Start starts the event processor of the current epoch.
// No errors are expected during normal operation.
func (m *EpochManager) Start() error {
	return m.eventProcessor.Start()
}

func (m *EpochManager) ValidationStatus() ValidationStatus {
	return m.validationStatus
}

// CurrentEpoch is the epoch the node is in.
func (m *EpochManager) CurrentEpoch() uint64 {
	return m.lastEpochChange.NextEpoch()
}

// QueuedEvents returns the number of consensus events queued for future epochs.
func (m *EpochManager) QueuedEvents() int {
	return m.queuedCount
}

func (m *EpochManager) updateEpochState() error {
	validatorSet := m.lastEpochChange.Configuration.ValidatorSet
	epoch := m.CurrentEpoch()
	m.metrics.EpochTransition(epoch)

	if m.self == nil {
		m.configureAsNonValidator(NotConfiguredAsValidator)
		return nil
	}
	if !validatorSet.Contains(*m.self) {
		m.configureAsNonValidator(NotValidatingInCurrentEpoch)
		return nil
	}
	return m.configureAsActiveValidator(*m.self)
}

func (m *EpochManager) configureAsNonValidator(status ValidationStatus) {
	noop := &noopProcessor{}
	m.eventProcessor = noop
	m.syncProcessor = noop
	m.requestProcessor = noop
	m.vertexStore = nil
	m.validators = nil
	m.validationStatus = status

	m.log.Info().
		Uint64("epoch", m.CurrentEpoch()).
		Str("validation_status", status.String()).
		Msg("configured as non validator")
}

func (m *EpochManager) configureAsActiveValidator(self model.ValidatorID) error {
	epoch := m.CurrentEpoch()
	configuration := m.lastEpochChange.Configuration

	initialState, err := safetyrules.InitialSafetyState(m.safetyStore, self, epoch)
	if err != nil {
		return fmt.Errorf("could not load initial safety state: %w", err)
	}
	safety, err := safetyrules.New(m.log, m.hasher, m.signer, m.verifier, configuration.ValidatorSet,
		m.safetyStore, m.safetyMetrics, m.config.SafetyRules, initialState)
	if err != nil {
		return fmt.Errorf("could not create safety rules: %w", err)
	}

	store, err := vertexstore.New(m.log, m.ledger, m.hasher, m.vertexStoreMetrics, m.config.VertexStore, configuration.VertexStoreState)
	if err != nil {
		return fmt.Errorf("could not create vertex store: %w", err)
	}
	adapter := vertexstore.NewAdapter(store, m.consumer)

	highQC := configuration.VertexStoreState.HighQC()
	round := highQC.HighestRound().Next()
	initialRoundUpdate := model.RoundUpdate{
		Round:      round,
		HighQC:     highQC,
		Leader:     configuration.ProposerElection.Proposer(round),
		NextLeader: configuration.ProposerElection.Proposer(round.Next()),
	}

	// the vertex store can be ahead of or behind the ledger around an epoch change
	ledgerHeader := configuration.VertexStoreState.RootHeader().Header
	if m.currentLedgerHeader.StateVersion() > ledgerHeader.StateVersion() {
		ledgerHeader = m.currentLedgerHeader
	}

	eventProcessor, syncProcessor, err := m.factory.Create(EpochContext{
		Self:               self,
		Epoch:              epoch,
		Configuration:      configuration,
		InitialRoundUpdate: initialRoundUpdate,
		SafetyRules:        safety,
		VertexStore:        adapter,
		LedgerHeader:       ledgerHeader,
	})
	if err != nil {
		return fmt.Errorf("could not create epoch components: %w", err)
	}

	m.eventProcessor = eventProcessor
	m.syncProcessor = syncProcessor
	m.requestProcessor = synchronization.NewRequestProcessor(m.log, m.hasher, adapter, m.responseDispatcher,
		synchronization.WithMaxRequestedVertices(m.config.Sync.MaxRequestedVertices))
	m.validationStatus = ValidatingInCurrentEpoch
	m.validators = make(map[model.ValidatorID]struct{})
	ids := make([]model.ValidatorID, 0, len(configuration.ValidatorSet.Validators()))
	for _, v := range configuration.ValidatorSet.Validators() {
		m.validators[v.ID] = struct{}{}
		ids = append(ids, v.ID)
	}
	m.vertexStore = adapter

	m.log.Info().
		Uint64("epoch", epoch).
		Uint64("round", uint64(round)).
		Uint64("locked_round", uint64(initialState.LockedRound)).
		Strs("validators", logging.ValidatorIDs(ids)).
		Msg("configured as active validator")
	return nil
}

// resumeFromCheckpoint rebuilds the vertex store of the current epoch from the persisted
// checkpoint, if there is one for the epoch. A checkpoint which can not be resumed from is
// reported and skipped, leaving the store at the initial state of the epoch.
func (m *EpochManager) resumeFromCheckpoint() error {
	if m.validationStatus != ValidatingInCurrentEpoch {
		return nil
	}
	serialized, err := m.checkpoints.Load()
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not load vertex store checkpoint: %w", err)
	}
	epoch := m.CurrentEpoch()
	if !serialized.IsForEpoch(epoch) {
		m.log.Debug().
			Uint64("epoch", epoch).
			Uint64("checkpoint_epoch", serialized.HighQC.HighestQC.Epoch()).
			Msg("ignoring vertex store checkpoint of another epoch")
		return nil
	}
	state, err := serialized.ToVertexStoreState(m.log, m.hasher)
	if err != nil {
		m.log.Error().Err(err).Uint64("epoch", epoch).Msg("invalid vertex store checkpoint, starting from the initial epoch state")
		return nil
	}
	err = m.vertexStore.TryRebuild(state)
	if rebuildErr, ok := model.AsRebuildError(err); ok {
		m.log.Error().
			Str("reason", rebuildErr.Kind.String()).
			Uint64("epoch", epoch).
			Hex("root", logging.Hash(state.Root().Hash)).
			Msg("could not rebuild vertex store from checkpoint, starting from the initial epoch state")
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not rebuild vertex store: %w", err)
	}
	m.log.Info().
		Uint64("epoch", epoch).
		Hex("root", logging.Hash(state.Root().Hash)).
		Int("vertices", len(state.Vertices())).
		Msg("resumed vertex store from checkpoint")
	return nil
}

// ProcessLedgerUpdate processes a commit of the ledger. A commit which ends the epoch
// transitions the node into the next epoch, all others are forwarded to the vertex sync.
// No errors are expected during normal operation.
func (m *EpochManager) ProcessLedgerUpdate(update model.LedgerUpdate) error {
	m.currentLedgerHeader = update.Proof.Header
	if update.EpochChange != nil {
		return m.processEpochChange(update.EpochChange)
	}
	err := m.syncProcessor.ProcessLedgerUpdate(update)
	if err != nil {
		return fmt.Errorf("could not process ledger update: %w", err)
	}
	return nil
}

// processEpochChange transitions into the next epoch and replays the events queued for it.
// An epoch change which does not start the epoch directly following the current one can only
// be produced by a bug and is reported as an exception.
func (m *EpochManager) processEpochChange(epochChange *model.EpochChange) error {
	current := m.CurrentEpoch()
	if epochChange.NextEpoch() != current+1 {
		return irrecoverable.NewExceptionf("bad epoch change %s, current epoch %d", epochChange, current)
	}

	if m.validationStatus == ValidatingInCurrentEpoch {
		m.broadcastLedgerStatus(epochChange)
	}

	m.log.Info().
		Uint64("epoch", epochChange.NextEpoch()).
		Uint64("state_version", epochChange.Proof.StateVersion()).
		Msg("transitioning into next epoch")

	m.lastEpochChange = epochChange
	err := m.updateEpochState()
	if err != nil {
		return irrecoverable.NewExceptionf("could not create components of epoch %d: %w", epochChange.NextEpoch(), err)
	}
	err = m.eventProcessor.Start()
	if err != nil {
		return fmt.Errorf("could not start event processor of epoch %d: %w", epochChange.NextEpoch(), err)
	}
	return m.replayQueuedEvents(epochChange.NextEpoch())
}

// broadcastLedgerStatus announces the genesis of the next epoch to the validators of the
// current and the next epoch, so that lagging validators learn about the epoch change.
func (m *EpochManager) broadcastLedgerStatus(epochChange *model.EpochChange) {
	recipients := make(map[model.ValidatorID]struct{})
	for _, v := range m.lastEpochChange.Configuration.ValidatorSet.Validators() {
		recipients[v.ID] = struct{}{}
	}
	for _, v := range epochChange.Configuration.ValidatorSet.Validators() {
		recipients[v.ID] = struct{}{}
	}
	delete(recipients, *m.self)

	ids := make([]model.ValidatorID, 0, len(recipients))
	for id := range recipients {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b model.ValidatorID) int { return a.Compare(b) })

	update := model.LedgerStatusUpdate{Proof: epochChange.GenesisProof()}
	for _, id := range ids {
		m.statusDispatcher.DispatchLedgerStatusUpdate(id, update)
	}
}

// replayQueuedEvents processes the events queued for the epoch which carry the highest queued
// round. Events of lower rounds can not advance consensus anymore and are dropped, together
// with the queues of all epochs up to the given one.
func (m *EpochManager) replayQueuedEvents(epoch uint64) error {
	var events []model.ConsensusEvent
	for queuedEpoch, queue := range m.queued {
		if queuedEpoch > epoch {
			continue
		}
		drained := queue.Drain()
		m.queuedCount -= len(drained)
		delete(m.queued, queuedEpoch)
		if queuedEpoch == epoch {
			events = drained
		} else {
			for range drained {
				m.metrics.ConsensusEventDropped(metrics.DropReasonStaleEpoch)
			}
		}
	}
	m.metrics.QueuedEvents(m.queuedCount)

	highestRound := model.GenesisRound
	for _, event := range events {
		highestRound = model.MaxRound(highestRound, event.Round())
	}
	for _, event := range events {
		if event.Round() < highestRound {
			m.metrics.ConsensusEventDropped(metrics.DropReasonSuperseded)
			continue
		}
		err := m.processConsensusEventInternal(event)
		if err != nil {
			return fmt.Errorf("could not process queued event: %w", err)
		}
	}

	m.log.Debug().
		Uint64("epoch", epoch).
		Int("queued", len(events)).
		Uint64("replayed_round", uint64(highestRound)).
		Msg("replayed queued consensus events")
	return nil
}

// ProcessConsensusEvent dispatches a proposal or vote of the current epoch. Events of future
// epochs are queued, events of past epochs are dropped.
// No errors are expected during normal operation.
func (m *EpochManager) ProcessConsensusEvent(event model.ConsensusEvent) error {
	current := m.CurrentEpoch()
	if event.Epoch() > current {
		m.enqueue(event)
		return nil
	}
	if event.Epoch() < current {
		m.metrics.ConsensusEventDropped(metrics.DropReasonStaleEpoch)
		m.log.Debug().
			Uint64("event_epoch", event.Epoch()).
			Uint64("epoch", current).
			Uint64("round", uint64(event.Round())).
			Msg("ignoring consensus event of a past epoch")
		return nil
	}
	return m.processConsensusEventInternal(event)
}

func (m *EpochManager) enqueue(event model.ConsensusEvent) {
	lg := m.log.With().
		Uint64("event_epoch", event.Epoch()).
		Uint64("epoch", m.CurrentEpoch()).
		Uint64("round", uint64(event.Round())).
		Logger()

	if m.queuedCount >= m.config.MaxQueuedEvents {
		m.metrics.ConsensusEventDropped(metrics.DropReasonQueueFull)
		lg.Debug().Int("queued", m.queuedCount).Msg("future epoch queue full, dropping consensus event")
		return
	}
	queue, ok := m.queued[event.Epoch()]
	if !ok {
		// the global limit is never above the capacity of a single queue
		queue, _ = fifoqueue.NewFifoQueue[model.ConsensusEvent](fifoqueue.WithCapacity(m.config.MaxQueuedEvents))
		m.queued[event.Epoch()] = queue
	}
	queue.Push(event)
	m.queuedCount++
	m.metrics.ConsensusEventQueued()
	m.metrics.QueuedEvents(m.queuedCount)
	lg.Debug().Msg("queued consensus event of a future epoch")
}

func (m *EpochManager) processConsensusEventInternal(event model.ConsensusEvent) error {
	m.metrics.ConsensusEventReceived()

	var err error
	switch e := event.(type) {
	case *model.Proposal:
		err = m.eventProcessor.ProcessProposal(e)
	case *model.Vote:
		err = m.eventProcessor.ProcessVote(e)
	default:
		panic(fmt.Sprintf("unexpected consensus event %T", e))
	}
	if err != nil {
		return fmt.Errorf("could not process consensus event of round %d: %w", event.Round(), err)
	}
	return nil
}

// ProcessLocalTimeout forwards a pacemaker timeout scheduled in the current epoch.
// No errors are expected during normal operation.
func (m *EpochManager) ProcessLocalTimeout(timeout model.Epoched[model.ScheduledLocalTimeout]) error {
	if !m.isCurrentEpoch(timeout.Epoch, "local_timeout") {
		return nil
	}
	err := m.eventProcessor.ProcessLocalTimeout(timeout.Event)
	if err != nil {
		return fmt.Errorf("could not process local timeout of round %d: %w", timeout.Event.Round(), err)
	}
	return nil
}

// ProcessTimeoutQuorumDelayedResolution forwards a delayed timeout quorum resolution
// scheduled in the current epoch.
// No errors are expected during normal operation.
func (m *EpochManager) ProcessTimeoutQuorumDelayedResolution(resolution model.Epoched[model.TimeoutQuorumDelayedResolution]) error {
	if !m.isCurrentEpoch(resolution.Epoch, "timeout_quorum_delayed_resolution") {
		return nil
	}
	return m.eventProcessor.ProcessTimeoutQuorumDelayedResolution(resolution.Event)
}

// ProcessRoundUpdate forwards a round update of the current epoch.
// No errors are expected during normal operation.
func (m *EpochManager) ProcessRoundUpdate(update model.Epoched[model.RoundUpdate]) error {
	if !m.isCurrentEpoch(update.Epoch, "round_update") {
		return nil
	}
	return m.eventProcessor.ProcessRoundUpdate(update.Event)
}

// ProcessProposalRejected forwards a proposal rejection of the current epoch.
// No errors are expected during normal operation.
func (m *EpochManager) ProcessProposalRejected(rejected model.Epoched[model.ProposalRejected]) error {
	if !m.isCurrentEpoch(rejected.Epoch, "proposal_rejected") {
		return nil
	}
	return m.eventProcessor.ProcessProposalRejected(rejected.Event)
}

// ProcessVertexRequestTimeout forwards a timeout of a vertex request sent in the current epoch.
// No errors are expected during normal operation.
func (m *EpochManager) ProcessVertexRequestTimeout(timeout model.Epoched[model.VertexRequestTimeout]) error {
	if !m.isCurrentEpoch(timeout.Epoch, "vertex_request_timeout") {
		return nil
	}
	return m.syncProcessor.ProcessVertexRequestTimeout(timeout.Event)
}

// ProcessBFTUpdate forwards the insertion of a vertex into the current vertex store.
// No errors are expected during normal operation.
func (m *EpochManager) ProcessBFTUpdate(update model.BFTInsertUpdate) error {
	return m.eventProcessor.ProcessBFTUpdate(update)
}

// ProcessBFTRebuildUpdate forwards a rebuild of the current epoch's vertex store.
// No errors are expected during normal operation.
func (m *EpochManager) ProcessBFTRebuildUpdate(update model.BFTRebuildUpdate) error {
	if !m.isCurrentEpoch(update.State.Root().Vertex.Epoch(), "bft_rebuild_update") {
		return nil
	}
	return m.eventProcessor.ProcessBFTRebuildUpdate(update)
}

// ProcessGetVerticesRequest answers a vertex request of a validator of the current epoch.
// No errors are expected during normal operation.
func (m *EpochManager) ProcessGetVerticesRequest(sender model.ValidatorID, request model.GetVerticesRequest) error {
	if !m.isValidator(sender, "get_vertices_request") {
		return nil
	}
	return m.requestProcessor.ProcessGetVerticesRequest(sender, request)
}

// ProcessGetVerticesResponse forwards a response of a validator of the current epoch.
// No errors are expected during normal operation.
func (m *EpochManager) ProcessGetVerticesResponse(sender model.ValidatorID, response model.GetVerticesResponse) error {
	if !m.isValidator(sender, "get_vertices_response") {
		return nil
	}
	return m.syncProcessor.ProcessGetVerticesResponse(sender, response)
}

// ProcessGetVerticesErrorResponse forwards an error response of a validator of the current
// epoch, provided the sender's high QC is from the current epoch.
// No errors are expected during normal operation.
func (m *EpochManager) ProcessGetVerticesErrorResponse(sender model.ValidatorID, response model.GetVerticesErrorResponse) error {
	if !m.isCurrentEpoch(response.HighQC.HighestQC.Epoch(), "get_vertices_error_response") {
		return nil
	}
	if !m.isValidator(sender, "get_vertices_error_response") {
		return nil
	}
	return m.syncProcessor.ProcessGetVerticesErrorResponse(sender, response)
}

func (m *EpochManager) isCurrentEpoch(epoch uint64, event string) bool {
	if epoch == m.CurrentEpoch() {
		return true
	}
	m.log.Debug().
		Str("event", event).
		Uint64("event_epoch", epoch).
		Uint64("epoch", m.CurrentEpoch()).
		Msg("ignoring event of another epoch")
	return false
}

func (m *EpochManager) isValidator(sender model.ValidatorID, event string) bool {
	if _, ok := m.validators[sender]; ok {
		return true
	}
	m.log.Debug().
		Str("event", event).
		Hex("sender", logging.ValidatorID(sender)).
		Msg("ignoring sync message of a node outside the current validator set")
	return false
}
