package metrics

// Prometheus metric namespaces
const (
	namespaceConsensus = "consensus"
	namespaceLedger    = "ledger"
	namespaceStorage   = "storage"
)

// Consensus subsystems
const (
	subsystemVertexStore  = "vertex_store"
	subsystemSafetyRules  = "safety_rules"
	subsystemEpochManager = "epoch_manager"
	subsystemRunner       = "runner"
)

// Ledger and storage subsystems
const (
	subsystemExecution = "execution"
	subsystemBadger    = "badger"
	subsystemCache     = "cache"
)
