package common

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"

	"github.com/onflow/chainbft/module/metrics"
	bstorage "github.com/onflow/chainbft/storage/badger"
)

// InitStorages opens the database in the directory. The caller closes the database.
func InitStorages(log zerolog.Logger, dir string) (*badger.DB, *bstorage.All, error) {
	db, err := bstorage.Open(dir, log)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open database at %s: %w", dir, err)
	}
	return db, bstorage.InitAll(metrics.NewNoopCollector(), db), nil
}

// PrettyPrint writes the value as indented JSON.
func PrettyPrint(w io.Writer, v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}
