package badger

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/chainbft/module"
)

// All includes all the storage modules of a consensus node.
type All struct {
	SafetyStates *SafetyStates
	Checkpoints  *VertexStoreCheckpoints
	LedgerProofs *LedgerProofs
	Transactions *Transactions
}

func InitAll(metrics module.CacheMetrics, db *badger.DB) *All {
	return &All{
		SafetyStates: NewSafetyStates(db),
		Checkpoints:  NewVertexStoreCheckpoints(db),
		LedgerProofs: NewLedgerProofs(metrics, db),
		Transactions: NewTransactions(db),
	}
}
