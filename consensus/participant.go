package consensus

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/onflow/chainbft/config"
	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/engine/consensus/epochmgr"
	"github.com/onflow/chainbft/engine/consensus/runner"
	"github.com/onflow/chainbft/ledger"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/module/metrics"
	bstorage "github.com/onflow/chainbft/storage/badger"
)

// Participant is the consensus core of a node. All events are submitted to the Runner, which
// must be started for the node to participate.
type Participant struct {
	Runner       *runner.Runner
	EpochManager *epochmgr.EpochManager
	Ledger       *ledger.StateComputerLedger
	Storages     *bstorage.All
}

// NewParticipant opens the consensus storages in the database, recovers the committed state and wires the epoch manager, the
// ledger and the runner. Ledger updates and vertex store events are fed back into the runner.
func NewParticipant(
	log zerolog.Logger,
	conf *config.Config,
	registerer prometheus.Registerer,
	self *model.ValidatorID,
	hasher hash.Hasher,
	signer bft.HashSigner,
	verifier bft.HashVerifier,
	db *badger.DB,
	stateConfig ledger.TransactionLogConfig,
	factory epochmgr.EpochComponentsFactory,
	statusDispatcher bft.LedgerStatusUpdateDispatcher,
	responseDispatcher bft.VerticesResponseDispatcher,
	rootProof model.LedgerProof,
) (*Participant, error) {

	storages := bstorage.InitAll(metrics.NewCacheCollector(registerer), db)
	lastProof, epochChange, err := Recover(log, hasher, storages.LedgerProofs, rootProof)
	if err != nil {
		return nil, fmt.Errorf("could not recover consensus state: %w", err)
	}

	// the runner serializes all events, including those emitted while processing events
	loop, err := runner.New(log, metrics.NewRunnerCollector(registerer), conf.RunnerInboxCapacity)
	if err != nil {
		return nil, fmt.Errorf("could not initialize runner: %w", err)
	}

	stateComputer := ledger.NewTransactionLog(log, hasher, stateConfig, storages.Transactions, storages.LedgerProofs, loop, lastProof)
	stateLedger := ledger.NewStateComputerLedger(log, metrics.NewLedgerCollector(registerer), ledger.NewAccumulator(hasher), stateComputer, lastProof)

	notifier := CreateNotifier(log, storages.Checkpoints, stateLedger.OnCommitted)
	notifier.AddConsumer(loop)

	manager, err := epochmgr.New(
		log,
		self,
		hasher,
		signer,
		verifier,
		stateLedger,
		storages.SafetyStates,
		storages.Checkpoints,
		notifier,
		statusDispatcher,
		responseDispatcher,
		factory,
		metrics.NewEpochManagerCollector(registerer),
		metrics.NewVertexStoreCollector(registerer),
		metrics.NewSafetyRulesCollector(registerer),
		conf.Consensus,
		lastProof,
		epochChange,
	)
	if err != nil {
		return nil, fmt.Errorf("could not initialize epoch manager: %w", err)
	}

	return &Participant{
		Runner:       loop.WithHandler(manager),
		EpochManager: manager,
		Ledger:       stateLedger,
		Storages:     storages,
	}, nil
}
