package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/consensus/bft/notifications"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/module"
	"github.com/onflow/chainbft/module/irrecoverable"
	"github.com/onflow/chainbft/utils/logging"
)

const (
	originBFT  = "bft"
	originSync = "sync"
)

// StateComputerLedger executes vertices with a StateComputer and commits ledger extensions
// from consensus and from ledger sync. Preparing and committing are serialized by one lock,
// so a vertex is never executed on top of a state which is concurrently committed past.
type StateComputerLedger struct {
	notifications.NoopConsumer

	log           zerolog.Logger
	metrics       module.LedgerMetrics
	accumulator   *Accumulator
	stateComputer StateComputer

	mu      sync.Mutex
	current model.LedgerProof
}

var (
	_ bft.Ledger              = (*StateComputerLedger)(nil)
	_ bft.VertexStoreConsumer = (*StateComputerLedger)(nil)
)

// NewStateComputerLedger creates a ledger whose committed state is described by the proof.
func NewStateComputerLedger(
	log zerolog.Logger,
	metrics module.LedgerMetrics,
	accumulator *Accumulator,
	stateComputer StateComputer,
	lastProof model.LedgerProof,
) *StateComputerLedger {
	return &StateComputerLedger{
		log:           log.With().Str("component", "state_computer_ledger").Logger(),
		metrics:       metrics,
		accumulator:   accumulator,
		stateComputer: stateComputer,
		current:       lastProof,
	}
}

// CurrentProof returns the proof of the committed state.
func (l *StateComputerLedger) CurrentProof() model.LedgerProof {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Prepare executes the vertex on top of its ancestors. Ancestors which are already committed
// are skipped. A vertex extending an epoch ending header is not executed and keeps the
// parent's header, so that all validators agree on the initial vertex of the next epoch.
// Expected error returns during normal operations:
//   - model.PrepareRejectedError if the parent state is behind the committed state or the
//     ancestors do not extend the committed state
func (l *StateComputerLedger) Prepare(previous []*model.ExecutedVertex, vertex *model.VertexWithHash) (*model.ExecutedVertex, error) {
	start := time.Now()
	defer func() {
		l.metrics.PrepareDuration(time.Since(start))
	}()

	parent := vertex.Vertex.ParentHeader().Ledger
	parentAccumulator := parent.Accumulator

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current.StateVersion() > parentAccumulator.StateVersion {
		return nil, model.PrepareRejectedError{Reason: fmt.Sprintf("parent state version %d is behind committed version %d",
			parentAccumulator.StateVersion, l.current.StateVersion())}
	}

	if parent.IsEndOfEpoch() {
		return &model.ExecutedVertex{
			VertexWithHash: vertex,
			LedgerHeader:   parent,
			ExecutedAt:     time.Now(),
		}, nil
	}

	extension, ok := l.extensionOfCommittedState(previous, parentAccumulator)
	if !ok {
		return nil, model.PrepareRejectedError{Reason: "ancestors do not extend the committed state"}
	}

	committedAccumulator := l.current.Header.Accumulator.AccumulatorHash
	result, err := l.stateComputer.Prepare(committedAccumulator, extension, vertex.Vertex.Transactions, RoundDetailsFromVertex(vertex))
	if err != nil {
		return nil, fmt.Errorf("could not execute vertex %x: %w", vertex.Hash, err)
	}

	header := model.LedgerHeader{
		Epoch:                         parent.Epoch,
		Round:                         vertex.Round(),
		Accumulator:                   l.accumulator.AccumulateTransactions(parentAccumulator, result.Successful),
		StateHash:                     result.StateHash,
		ConsensusParentRoundTimestamp: vertex.Vertex.QCToParent.Timestamp(),
		ProposerTimestamp:             vertex.Vertex.ProposerTimestamp,
		NextEpoch:                     result.NextEpoch,
	}
	return &model.ExecutedVertex{
		VertexWithHash: vertex,
		LedgerHeader:   header,
		Successful:     result.Successful,
		Failed:         result.Failed,
		ExecutedAt:     time.Now(),
	}, nil
}

// extensionOfCommittedState drops the already committed prefix of the ancestors and checks
// that the remaining ones lead from the committed state to the parent state.
func (l *StateComputerLedger) extensionOfCommittedState(previous []*model.ExecutedVertex, parentAccumulator model.AccumulatorState) ([]*model.ExecutedVertex, bool) {
	committed := l.current.Header.Accumulator
	extension := make([]*model.ExecutedVertex, 0, len(previous))
	var payloads []hash.Hash
	for _, v := range previous {
		if v.LedgerHeader.StateVersion() <= committed.StateVersion {
			continue
		}
		extension = append(extension, v)
		for _, tx := range v.Successful {
			payloads = append(payloads, l.accumulator.PayloadHash(tx))
		}
	}
	if !l.accumulator.Verify(committed, payloads, parentAccumulator) {
		return nil, false
	}
	return extension, true
}

// Commit applies the extension if it is ahead of the committed state. Transactions which are
// already committed are skipped.
// No errors are expected during normal operation. An extension which does not match its proof
// implies a byzantine quorum and is reported as an exception.
func (l *StateComputerLedger) Commit(extension model.CommittedTransactionsWithProof, state *model.VertexStoreState) error {
	start := time.Now()
	defer func() {
		l.metrics.CommitDuration(time.Since(start))
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	next := extension.Proof
	if model.CompareLedgerProofs(next, l.current) <= 0 {
		return nil
	}

	transactions, ok := l.accumulator.VerifyAndGetExtension(l.current.Header.Accumulator, extension.Transactions, next.Header.Accumulator)
	if !ok {
		return irrecoverable.NewExceptionf("accumulator failure, committed %s, extension proof %s",
			l.current.Header, next.Header)
	}

	origin := originBFT
	if state == nil {
		origin = originSync
	}
	l.metrics.TransactionsCommitted(origin, len(transactions))

	err := l.stateComputer.Commit(model.CommittedTransactionsWithProof{Transactions: transactions, Proof: next}, state)
	if err != nil {
		return fmt.Errorf("could not commit extension: %w", err)
	}
	l.current = next
	l.metrics.StateVersion(next.StateVersion())

	l.log.Debug().
		Str("origin", origin).
		Uint64("epoch", next.Epoch()).
		Uint64("state_version", next.StateVersion()).
		Int("transactions", len(transactions)).
		Bool("end_of_epoch", next.Header.IsEndOfEpoch()).
		Msg("committed ledger extension")
	return nil
}

// OnCommitted commits the transactions of the vertices committed by consensus, proven by the
// new root of the vertex store.
func (l *StateComputerLedger) OnCommitted(update model.BFTCommittedUpdate) error {
	var transactions [][]byte
	for _, v := range update.Committed {
		transactions = append(transactions, v.Successful...)
	}
	proof := update.State.RootHeader()
	err := l.Commit(model.CommittedTransactionsWithProof{Transactions: transactions, Proof: proof}, update.State)
	if err != nil {
		return fmt.Errorf("could not commit vertices up to %x: %w", logging.Hash(update.State.Root().Hash), err)
	}
	return nil
}

// ProcessSyncedExtension commits an extension received through ledger sync.
// No errors are expected during normal operation.
func (l *StateComputerLedger) ProcessSyncedExtension(extension model.CommittedTransactionsWithProof) error {
	return l.Commit(extension, nil)
}
