package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/chainbft/storage/badger/operation"
)

// Transactions stores committed transactions indexed by the state version they led to.
type Transactions struct {
	db *badger.DB
}

func NewTransactions(db *badger.DB) *Transactions {
	return &Transactions{
		db: db,
	}
}

// Store stores the transactions with consecutive state versions starting at firstVersion.
// Transactions which were already stored are skipped.
// No errors are expected during normal operation.
func (t *Transactions) Store(firstVersion uint64, transactions [][]byte) error {
	err := operation.RetryOnConflict(t.db.Update, func(tx *badger.Txn) error {
		for i, transaction := range transactions {
			err := operation.SkipDuplicates(operation.InsertTransaction(firstVersion+uint64(i), transaction))(tx)
			if err != nil {
				return fmt.Errorf("could not store transaction %d: %w", firstVersion+uint64(i), err)
			}
		}
		return nil
	})
	return operation.TerminateOnFullDisk(err)
}

// ByVersion returns the transaction which led to the state version.
// Expected error returns during normal operations:
//   - storage.ErrNotFound if no transaction led to the version
func (t *Transactions) ByVersion(version uint64) ([]byte, error) {
	var transaction []byte
	err := t.db.View(operation.RetrieveTransaction(version, &transaction))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve transaction %d: %w", version, err)
	}
	return transaction, nil
}
