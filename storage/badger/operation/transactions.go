package operation

import (
	"github.com/dgraph-io/badger/v2"
)

// InsertTransaction stores the committed transaction at its state version.
// Error returns:
//   - storage.ErrAlreadyExists if a transaction was already committed at the version
func InsertTransaction(version uint64, transaction []byte) func(*badger.Txn) error {
	return insert(makePrefix(codeTransaction, version), transaction)
}

// RetrieveTransaction loads the transaction committed at the state version.
// Error returns:
//   - storage.ErrNotFound if no transaction was committed at the version
func RetrieveTransaction(version uint64, transaction *[]byte) func(*badger.Txn) error {
	return retrieve(makePrefix(codeTransaction, version), transaction)
}
