package operation

import (
	"context"
	"errors"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/sethvargo/go-retry"

	"github.com/onflow/chainbft/module/irrecoverable"
	"github.com/onflow/chainbft/module/metrics"
	"github.com/onflow/chainbft/storage"
)

// maxConflictRetries bounds the retries of a single badger transaction.
const maxConflictRetries = 10

func SkipDuplicates(op func(*badger.Txn) error) func(tx *badger.Txn) error {
	return func(tx *badger.Txn) error {
		err := op(tx)
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil
		}
		return err
	}
}

// RetryOnConflict runs the operation with the given action (db.Update or db.View) and retries
// it with a short exponential backoff while badger reports a transaction conflict.
func RetryOnConflict(action func(func(*badger.Txn) error) error, op func(tx *badger.Txn) error) error {
	expRetry, err := retry.NewExponential(time.Millisecond)
	if err != nil {
		return irrecoverable.NewExceptionf("could not create retry backoff: %w", err)
	}
	backoff := retry.WithMaxRetries(maxConflictRetries, expRetry)
	return retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		err := action(op)
		if errors.Is(err, badger.ErrConflict) {
			metrics.GetStorageCollector().RetryOnConflict()
			return retry.RetryableError(err)
		}
		return err
	})
}

// TerminateOnFullDisk helper function to crash node if write failed because disk is full
func TerminateOnFullDisk(err error) error {
	// using panic so any deferred functions can still execute
	// relevant badgerDB code: https://github.com/dgraph-io/badger/blob/156819ccb106bbeb207e985f561780e2929344bc/value.go#L1454-L1463
	if err != nil && errors.Is(err, syscall.ENOSPC) {
		panic("disk full, terminating node...")
	}
	return err
}
