package runner

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/engine/common/fifoqueue"
	"github.com/onflow/chainbft/engine/consensus/epochmgr"
	"github.com/onflow/chainbft/module"
	"github.com/onflow/chainbft/module/component"
	"github.com/onflow/chainbft/module/irrecoverable"
)

// DefaultInboxCapacity is the maximum number of network events waiting to be processed.
const DefaultInboxCapacity = 10_000

// EventHandler processes the events of the consensus core. Implementations are not
// required to be concurrency safe: the Runner calls them from a single goroutine.
type EventHandler interface {
	Start() error
	ProcessConsensusEvent(event model.ConsensusEvent) error
	ProcessLocalTimeout(timeout model.Epoched[model.ScheduledLocalTimeout]) error
	ProcessTimeoutQuorumDelayedResolution(resolution model.Epoched[model.TimeoutQuorumDelayedResolution]) error
	ProcessRoundUpdate(update model.Epoched[model.RoundUpdate]) error
	ProcessProposalRejected(rejected model.Epoched[model.ProposalRejected]) error
	ProcessVertexRequestTimeout(timeout model.Epoched[model.VertexRequestTimeout]) error
	ProcessLedgerUpdate(update model.LedgerUpdate) error
	ProcessBFTUpdate(update model.BFTInsertUpdate) error
	ProcessBFTRebuildUpdate(update model.BFTRebuildUpdate) error
	ProcessGetVerticesRequest(sender model.ValidatorID, request model.GetVerticesRequest) error
	ProcessGetVerticesResponse(sender model.ValidatorID, response model.GetVerticesResponse) error
	ProcessGetVerticesErrorResponse(sender model.ValidatorID, response model.GetVerticesErrorResponse) error
}

var _ EventHandler = (*epochmgr.EpochManager)(nil)

// event is a queued call into the EventHandler, labelled for metrics and logs.
type event struct {
	name    string
	process func(EventHandler) error
}

// Runner serializes all calls into the consensus core. Events are processed one at a time
// by a single worker. Proposals, votes and sync messages from the network are queued in a
// bounded inbox and dropped when it is full. Events of the node itself (timers, ledger
// updates and vertex store updates) are queued without a bound and are never dropped; they
// are processed before pending network events. Any error returned by the handler is
// irrecoverable and halts the node.
type Runner struct {
	log       zerolog.Logger
	metrics   module.RunnerMetrics
	handler   EventHandler
	inbox     *fifoqueue.FifoQueue[event]
	internal  *fifoqueue.FifoQueue[event]
	notifier  module.Notifier
	processed *atomic.Uint64

	cm *component.ComponentManager
	component.Component
}

var _ bft.LedgerUpdateDispatcher = (*Runner)(nil)
var _ bft.VertexStoreConsumer = (*Runner)(nil)

// New creates a Runner. Events can be submitted right away, they are processed once the
// Runner was started with a handler.
func New(log zerolog.Logger, metrics module.RunnerMetrics, capacity int) (*Runner, error) {
	inbox, err := fifoqueue.NewFifoQueue[event](
		fifoqueue.WithCapacity(capacity),
		fifoqueue.WithLengthObserver(metrics.InboxLength),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create runner inbox: %w", err)
	}
	internal, err := fifoqueue.NewFifoQueue[event]()
	if err != nil {
		return nil, fmt.Errorf("could not create runner internal queue: %w", err)
	}

	r := &Runner{
		log:       log.With().Str("component", "consensus_runner").Logger(),
		metrics:   metrics,
		inbox:     inbox,
		internal:  internal,
		notifier:  module.NewNotifier(),
		processed: atomic.NewUint64(0),
	}
	r.cm = component.NewComponentManagerBuilder().
		AddWorker(r.processEventsLoop).
		Build()
	r.Component = r.cm

	return r, nil
}

// WithHandler sets the handler processing the events. This must be called before the
// Runner is started.
func (r *Runner) WithHandler(handler EventHandler) *Runner {
	r.handler = handler
	return r
}

// Processed returns the number of events processed so far.
func (r *Runner) Processed() uint64 {
	return r.processed.Load()
}

// processEventsLoop starts the handler and processes queued events until shutdown.
func (r *Runner) processEventsLoop(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	if r.handler == nil {
		ctx.Throw(fmt.Errorf("must initialize runner with an event handler"))
		return
	}
	err := r.handler.Start()
	if err != nil {
		ctx.Throw(fmt.Errorf("could not start consensus: %w", err))
		return
	}
	ready()

	doneSignal := ctx.Done()
	newEventSignal := r.notifier.Channel()
	for {
		select {
		case <-doneSignal:
			return
		case <-newEventSignal:
			err := r.processQueuedEvents(ctx)
			if err != nil {
				ctx.Throw(err)
				return
			}
		}
	}
}

// processQueuedEvents processes events until the inbox is empty or the runner is shut down.
// No errors are expected during normal operation. All returned exceptions are potential
// symptoms of internal state corruption and should be fatal.
func (r *Runner) processQueuedEvents(ctx irrecoverable.SignalerContext) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		e, ok := r.internal.Pop()
		if !ok {
			e, ok = r.inbox.Pop()
		}
		if !ok {
			return nil
		}
		start := time.Now()
		err := e.process(r.handler)
		if err != nil {
			return fmt.Errorf("could not process %s: %w", e.name, err)
		}
		r.metrics.EventProcessed(e.name, time.Since(start))
		r.processed.Inc()
	}
}

// submit queues an event received from the network. It is dropped if the inbox is full.
func (r *Runner) submit(e event) {
	if !r.inbox.Push(e) {
		r.log.Warn().Str("event", e.name).Msg("inbox full, dropping event")
		r.metrics.EventDropped(e.name)
		return
	}
	r.notifier.Notify()
}

// submitInternal queues an event of the node itself. These events are never dropped.
func (r *Runner) submitInternal(e event) {
	r.internal.Push(e)
	r.notifier.Notify()
}

// SubmitConsensusEvent queues a proposal or vote received from the network.
func (r *Runner) SubmitConsensusEvent(ev model.ConsensusEvent) {
	name := "vote"
	if _, ok := ev.(*model.Proposal); ok {
		name = "proposal"
	}
	r.submit(event{name: name, process: func(h EventHandler) error {
		return h.ProcessConsensusEvent(ev)
	}})
}

// SubmitLocalTimeout queues a fired pacemaker timeout.
func (r *Runner) SubmitLocalTimeout(timeout model.Epoched[model.ScheduledLocalTimeout]) {
	r.submitInternal(event{name: "local_timeout", process: func(h EventHandler) error {
		return h.ProcessLocalTimeout(timeout)
	}})
}

// SubmitTimeoutQuorumDelayedResolution queues a delayed resolution of a timeout quorum.
func (r *Runner) SubmitTimeoutQuorumDelayedResolution(resolution model.Epoched[model.TimeoutQuorumDelayedResolution]) {
	r.submitInternal(event{name: "timeout_quorum_delayed_resolution", process: func(h EventHandler) error {
		return h.ProcessTimeoutQuorumDelayedResolution(resolution)
	}})
}

// SubmitRoundUpdate queues a pacemaker round update.
func (r *Runner) SubmitRoundUpdate(update model.Epoched[model.RoundUpdate]) {
	r.submitInternal(event{name: "round_update", process: func(h EventHandler) error {
		return h.ProcessRoundUpdate(update)
	}})
}

// SubmitProposalRejected queues the rejection of a proposal.
func (r *Runner) SubmitProposalRejected(rejected model.Epoched[model.ProposalRejected]) {
	r.submitInternal(event{name: "proposal_rejected", process: func(h EventHandler) error {
		return h.ProcessProposalRejected(rejected)
	}})
}

// SubmitVertexRequestTimeout queues the timeout of a vertex request.
func (r *Runner) SubmitVertexRequestTimeout(timeout model.Epoched[model.VertexRequestTimeout]) {
	r.submitInternal(event{name: "vertex_request_timeout", process: func(h EventHandler) error {
		return h.ProcessVertexRequestTimeout(timeout)
	}})
}

// SubmitGetVerticesRequest queues a sync request of another node.
func (r *Runner) SubmitGetVerticesRequest(sender model.ValidatorID, request model.GetVerticesRequest) {
	r.submit(event{name: "get_vertices_request", process: func(h EventHandler) error {
		return h.ProcessGetVerticesRequest(sender, request)
	}})
}

// SubmitGetVerticesResponse queues a response to one of the node's sync requests.
func (r *Runner) SubmitGetVerticesResponse(sender model.ValidatorID, response model.GetVerticesResponse) {
	r.submit(event{name: "get_vertices_response", process: func(h EventHandler) error {
		return h.ProcessGetVerticesResponse(sender, response)
	}})
}

// SubmitGetVerticesErrorResponse queues an error response to one of the node's sync requests.
func (r *Runner) SubmitGetVerticesErrorResponse(sender model.ValidatorID, response model.GetVerticesErrorResponse) {
	r.submit(event{name: "get_vertices_error_response", process: func(h EventHandler) error {
		return h.ProcessGetVerticesErrorResponse(sender, response)
	}})
}

// DispatchLedgerUpdate queues a ledger update. Implements bft.LedgerUpdateDispatcher.
func (r *Runner) DispatchLedgerUpdate(update model.LedgerUpdate) {
	r.submitInternal(event{name: "ledger_update", process: func(h EventHandler) error {
		return h.ProcessLedgerUpdate(update)
	}})
}

// OnVertexInserted queues the insert update for the event processor of the epoch.
func (r *Runner) OnVertexInserted(update model.BFTInsertUpdate) error {
	r.submitInternal(event{name: "bft_update", process: func(h EventHandler) error {
		return h.ProcessBFTUpdate(update)
	}})
	return nil
}

// OnRebuild queues the rebuild update for the event processor of the epoch.
func (r *Runner) OnRebuild(update model.BFTRebuildUpdate) error {
	r.submitInternal(event{name: "bft_rebuild_update", process: func(h EventHandler) error {
		return h.ProcessBFTRebuildUpdate(update)
	}})
	return nil
}

// OnCommitted is a no-op. Commits are consumed by the ledger and the checkpointer.
func (r *Runner) OnCommitted(model.BFTCommittedUpdate) error { return nil }

// OnHighQCUpdate is a no-op. High QC updates are consumed by the checkpointer.
func (r *Runner) OnHighQCUpdate(model.BFTHighQCUpdate) error { return nil }
