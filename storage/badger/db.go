package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	"github.com/onflow/chainbft/storage/badger/operation"
	"github.com/onflow/chainbft/storage/util"
)

// DBVersion is the version of the key layout written by this package.
const DBVersion = 1

// Open opens the database in the directory and checks that it was written with a
// compatible key layout.
func Open(dir string, log zerolog.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(util.NewLogger(log))
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	err = db.Update(operation.EnsureDBVersion(DBVersion))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not check database version: %w", err)
	}
	return db, nil
}
