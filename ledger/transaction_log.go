package ledger

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
)

// TransactionStore persists committed transactions by state version.
type TransactionStore interface {
	// Store stores transactions with consecutive versions starting at firstVersion.
	// No errors are expected during normal operation.
	Store(firstVersion uint64, transactions [][]byte) error
}

// ProofStore persists the proof of the committed state.
type ProofStore interface {
	// StoreLast replaces the proof of the committed state.
	// No errors are expected during normal operation.
	StoreLast(proof model.LedgerProof) error
}

// TransactionLogConfig configures the epochs of a TransactionLog.
type TransactionLogConfig struct {
	// EpochMaxRound is the round whose vertex ends the epoch.
	EpochMaxRound model.Round
	// Validators is the validator set of every following epoch.
	Validators []model.Validator
}

// TransactionLog is a StateComputer whose application state is the ordered log of committed
// transactions. Empty transactions fail. The state hash chains the hashes of all successful
// transactions. Every epoch ends with the vertex of round EpochMaxRound and keeps the
// configured validators.
type TransactionLog struct {
	log          zerolog.Logger
	hasher       hash.Hasher
	config       TransactionLogConfig
	transactions TransactionStore
	proofs       ProofStore
	dispatcher   bft.LedgerUpdateDispatcher

	mu        sync.Mutex
	stateHash hash.Hash
}

var _ StateComputer = (*TransactionLog)(nil)

// NewTransactionLog creates the state computer on top of the committed state of the proof.
func NewTransactionLog(
	log zerolog.Logger,
	hasher hash.Hasher,
	config TransactionLogConfig,
	transactions TransactionStore,
	proofs ProofStore,
	dispatcher bft.LedgerUpdateDispatcher,
	lastProof model.LedgerProof,
) *TransactionLog {
	return &TransactionLog{
		log:          log.With().Str("component", "transaction_log").Logger(),
		hasher:       hasher,
		config:       config,
		transactions: transactions,
		proofs:       proofs,
		dispatcher:   dispatcher,
		stateHash:    lastProof.Header.StateHash,
	}
}

func (l *TransactionLog) extendStateHash(state hash.Hash, transaction []byte) hash.Hash {
	payload := l.hasher.HashBytes(transaction)
	concatenated := make([]byte, 0, 2*hash.HashLen)
	concatenated = append(concatenated, state[:]...)
	concatenated = append(concatenated, payload[:]...)
	return l.hasher.HashBytes(concatenated)
}

func (l *TransactionLog) Prepare(_ hash.Hash, previous []*model.ExecutedVertex, transactions [][]byte, round RoundDetails) (*StateComputerResult, error) {
	l.mu.Lock()
	state := l.stateHash
	l.mu.Unlock()

	for _, v := range previous {
		for _, tx := range v.Successful {
			state = l.extendStateHash(state, tx)
		}
	}

	result := &StateComputerResult{}
	for _, tx := range transactions {
		if len(tx) == 0 {
			result.Failed = append(result.Failed, tx)
			continue
		}
		result.Successful = append(result.Successful, tx)
		state = l.extendStateHash(state, tx)
	}
	result.StateHash = state

	if round.Round >= l.config.EpochMaxRound {
		result.NextEpoch = &model.NextEpoch{
			Epoch:      round.Epoch + 1,
			Validators: l.config.Validators,
		}
	}
	return result, nil
}

// Commit stores the extension and its proof, then publishes the ledger update. A proof which
// ends the epoch is published together with the next epoch's configuration.
func (l *TransactionLog) Commit(extension model.CommittedTransactionsWithProof, _ *model.VertexStoreState) error {
	proof := extension.Proof
	firstVersion := proof.StateVersion() - uint64(len(extension.Transactions)) + 1
	err := l.transactions.Store(firstVersion, extension.Transactions)
	if err != nil {
		return fmt.Errorf("could not store committed transactions: %w", err)
	}
	err = l.proofs.StoreLast(proof)
	if err != nil {
		return fmt.Errorf("could not store committed proof: %w", err)
	}

	l.mu.Lock()
	l.stateHash = proof.Header.StateHash
	l.mu.Unlock()

	update := model.LedgerUpdate{Proof: proof}
	if proof.Header.IsEndOfEpoch() {
		update.EpochChange, err = EpochChangeFromProof(l.log, l.hasher, proof)
		if err != nil {
			return fmt.Errorf("could not create epoch change: %w", err)
		}
		l.log.Info().
			Uint64("epoch", update.EpochChange.NextEpoch()).
			Uint64("state_version", proof.StateVersion()).
			Msg("committed end of epoch")
	}
	l.dispatcher.DispatchLedgerUpdate(update)
	return nil
}
