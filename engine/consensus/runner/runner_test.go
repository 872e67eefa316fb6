package runner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/engine/consensus/runner"
	runnermock "github.com/onflow/chainbft/engine/consensus/runner/mock"
	"github.com/onflow/chainbft/module/irrecoverable"
	"github.com/onflow/chainbft/module/metrics"
	"github.com/onflow/chainbft/utils/unittest"
)

func vote(round model.Round) *model.Vote {
	return &model.Vote{
		Author:   model.ValidatorID{byte(round)},
		VoteData: model.VoteData{Proposed: model.Header{Round: round, Ledger: model.LedgerHeader{Epoch: 1, Round: round}}},
	}
}

func newRunner(t *testing.T, handler runner.EventHandler, capacity int) *runner.Runner {
	r, err := runner.New(unittest.Logger(), metrics.NewNoopCollector(), capacity)
	require.NoError(t, err)
	return r.WithHandler(handler)
}

// start starts the runner and stops it when the test ends.
func start(t *testing.T, r *runner.Runner) {
	ctx, cancel := irrecoverable.NewMockSignalerContextWithCancel(t, context.Background())
	r.Start(ctx)
	unittest.RequireCloseBefore(t, r.Ready(), time.Second, "runner did not start")
	t.Cleanup(func() {
		cancel()
		unittest.RequireCloseBefore(t, r.Done(), time.Second, "runner did not stop")
	})
}

func TestRunner_ProcessesEventsInOrder(t *testing.T) {
	handler := runnermock.NewEventHandler(t)
	handler.On("Start").Return(nil).Once()

	var processed []model.Round
	handler.On("ProcessConsensusEvent", mock.Anything).Run(func(args mock.Arguments) {
		processed = append(processed, args.Get(0).(model.ConsensusEvent).Round())
	}).Return(nil).Times(3)
	update := model.LedgerUpdate{Proof: model.LedgerProof{Header: model.LedgerHeader{Epoch: 1, Round: 4}}}
	handler.On("ProcessLedgerUpdate", update).Return(nil).Once()

	r := newRunner(t, handler, runner.DefaultInboxCapacity)
	start(t, r)

	for round := model.Round(1); round <= 3; round++ {
		r.SubmitConsensusEvent(vote(round))
	}
	r.DispatchLedgerUpdate(update)

	require.Eventually(t, func() bool { return r.Processed() == 4 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []model.Round{1, 2, 3}, processed)
}

func TestRunner_EpochedEvents(t *testing.T) {
	handler := runnermock.NewEventHandler(t)
	handler.On("Start").Return(nil).Once()

	timeout := model.Epoched[model.ScheduledLocalTimeout]{Epoch: 1, Event: model.ScheduledLocalTimeout{RoundUpdate: model.RoundUpdate{Round: 3}}}
	roundUpdate := model.Epoched[model.RoundUpdate]{Epoch: 1, Event: model.RoundUpdate{Round: 4}}
	rejected := model.Epoched[model.ProposalRejected]{Epoch: 1, Event: model.ProposalRejected{Round: 4, Reason: "invalid"}}
	resolution := model.Epoched[model.TimeoutQuorumDelayedResolution]{Epoch: 1, Event: model.TimeoutQuorumDelayedResolution{Round: 4, MillisDelay: 100}}
	requestTimeout := model.Epoched[model.VertexRequestTimeout]{Epoch: 1, Event: model.VertexRequestTimeout{VertexID: unittest.HashFixture()}}
	handler.On("ProcessLocalTimeout", timeout).Return(nil).Once()
	handler.On("ProcessRoundUpdate", roundUpdate).Return(nil).Once()
	handler.On("ProcessProposalRejected", rejected).Return(nil).Once()
	handler.On("ProcessTimeoutQuorumDelayedResolution", resolution).Return(nil).Once()
	handler.On("ProcessVertexRequestTimeout", requestTimeout).Return(nil).Once()

	r := newRunner(t, handler, runner.DefaultInboxCapacity)
	start(t, r)

	r.SubmitLocalTimeout(timeout)
	r.SubmitRoundUpdate(roundUpdate)
	r.SubmitProposalRejected(rejected)
	r.SubmitTimeoutQuorumDelayedResolution(resolution)
	r.SubmitVertexRequestTimeout(requestTimeout)

	require.Eventually(t, func() bool { return r.Processed() == 5 }, time.Second, 10*time.Millisecond)
}

func TestRunner_SyncMessages(t *testing.T) {
	handler := runnermock.NewEventHandler(t)
	handler.On("Start").Return(nil).Once()

	sender := model.ValidatorID{7}
	request := model.GetVerticesRequest{VertexID: unittest.HashFixture(), Count: 2}
	response := model.GetVerticesResponse{}
	errorResponse := model.GetVerticesErrorResponse{}
	handler.On("ProcessGetVerticesRequest", sender, request).Return(nil).Once()
	handler.On("ProcessGetVerticesResponse", sender, response).Return(nil).Once()
	handler.On("ProcessGetVerticesErrorResponse", sender, errorResponse).Return(nil).Once()

	r := newRunner(t, handler, runner.DefaultInboxCapacity)
	start(t, r)

	r.SubmitGetVerticesRequest(sender, request)
	r.SubmitGetVerticesResponse(sender, response)
	r.SubmitGetVerticesErrorResponse(sender, errorResponse)

	require.Eventually(t, func() bool { return r.Processed() == 3 }, time.Second, 10*time.Millisecond)
}

func TestRunner_VertexStoreUpdates(t *testing.T) {
	handler := runnermock.NewEventHandler(t)
	handler.On("Start").Return(nil).Once()

	inserted := model.BFTInsertUpdate{}
	rebuilt := model.BFTRebuildUpdate{}
	handler.On("ProcessBFTUpdate", inserted).Return(nil).Once()
	handler.On("ProcessBFTRebuildUpdate", rebuilt).Return(nil).Once()

	r := newRunner(t, handler, runner.DefaultInboxCapacity)
	start(t, r)

	require.NoError(t, r.OnVertexInserted(inserted))
	require.NoError(t, r.OnRebuild(rebuilt))
	require.NoError(t, r.OnCommitted(model.BFTCommittedUpdate{}))
	require.NoError(t, r.OnHighQCUpdate(model.BFTHighQCUpdate{}))

	require.Eventually(t, func() bool { return r.Processed() == 2 }, time.Second, 10*time.Millisecond)
}

// TestRunner_InboxFull checks that network events are dropped once the inbox is full while
// events of the node itself are still queued and processed before pending network events.
func TestRunner_InboxFull(t *testing.T) {
	handler := runnermock.NewEventHandler(t)
	handler.On("Start").Return(nil).Once()

	var order []string
	handler.On("ProcessConsensusEvent", mock.Anything).Run(func(mock.Arguments) {
		order = append(order, "vote")
	}).Return(nil).Twice()
	epochChange := &model.EpochChange{Epoch: 2, Proof: model.LedgerProof{Header: model.LedgerHeader{Epoch: 1, Round: 10}}}
	update := model.LedgerUpdate{Proof: epochChange.Proof, EpochChange: epochChange}
	handler.On("ProcessLedgerUpdate", update).Run(func(mock.Arguments) {
		order = append(order, "ledger_update")
	}).Return(nil).Once()
	insert := model.BFTInsertUpdate{}
	handler.On("ProcessBFTUpdate", insert).Run(func(mock.Arguments) {
		order = append(order, "bft_update")
	}).Return(nil).Once()
	timeout := model.Epoched[model.ScheduledLocalTimeout]{Epoch: 1, Event: model.ScheduledLocalTimeout{RoundUpdate: model.RoundUpdate{Round: 3}}}
	handler.On("ProcessLocalTimeout", timeout).Run(func(mock.Arguments) {
		order = append(order, "local_timeout")
	}).Return(nil).Once()

	r := newRunner(t, handler, 2)
	for round := model.Round(1); round <= 4; round++ {
		r.SubmitConsensusEvent(vote(round))
	}
	r.SubmitGetVerticesRequest(model.ValidatorID{1}, model.GetVerticesRequest{VertexID: unittest.HashFixture(), Count: 1})
	r.DispatchLedgerUpdate(update)
	require.NoError(t, r.OnVertexInserted(insert))
	r.SubmitLocalTimeout(timeout)
	start(t, r)

	require.Eventually(t, func() bool { return r.Processed() == 5 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"ledger_update", "bft_update", "local_timeout", "vote", "vote"}, order)
}

func TestRunner_ErrorsAreIrrecoverable(t *testing.T) {
	t.Run("start failure", func(t *testing.T) {
		handler := runnermock.NewEventHandler(t)
		handler.On("Start").Return(errors.New("no epoch")).Once()

		r := newRunner(t, handler, runner.DefaultInboxCapacity)
		ctx := irrecoverable.NewMockSignalerContextExpectError(t, context.Background(), errors.New("could not start consensus: no epoch"))
		r.Start(ctx)
		unittest.RequireCloseBefore(t, r.Done(), time.Second, "runner did not stop")
	})

	t.Run("missing handler", func(t *testing.T) {
		r, err := runner.New(unittest.Logger(), metrics.NewNoopCollector(), runner.DefaultInboxCapacity)
		require.NoError(t, err)
		ctx := irrecoverable.NewMockSignalerContextExpectError(t, context.Background(), errors.New("must initialize runner with an event handler"))
		r.Start(ctx)
		unittest.RequireCloseBefore(t, r.Done(), time.Second, "runner did not stop")
	})

	t.Run("processing failure", func(t *testing.T) {
		handler := runnermock.NewEventHandler(t)
		handler.On("Start").Return(nil).Once()
		update := model.LedgerUpdate{}
		handler.On("ProcessLedgerUpdate", update).Return(irrecoverable.NewExceptionf("non-consecutive epoch")).Once()

		r := newRunner(t, handler, runner.DefaultInboxCapacity)
		ctx := irrecoverable.NewMockSignalerContextExpectError(t, context.Background(), errors.New("could not process ledger_update: non-consecutive epoch"))
		r.Start(ctx)
		unittest.RequireCloseBefore(t, r.Ready(), time.Second, "runner did not start")

		r.DispatchLedgerUpdate(update)
		unittest.RequireCloseBefore(t, r.Done(), time.Second, "runner did not stop")
		assert.Equal(t, uint64(0), r.Processed())
	})
}
