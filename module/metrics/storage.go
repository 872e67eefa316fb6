package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onflow/chainbft/module"
)

type StorageCollector struct {
	retriedTransactions prometheus.Counter
}

var _ module.StorageMetrics = (*StorageCollector)(nil)

var (
	storageCollectorInstance *StorageCollector
	once                     sync.Once
)

// GetStorageCollector returns the process wide storage collector, registered with the
// default prometheus registerer on first use.
func GetStorageCollector() *StorageCollector {
	once.Do(func() {
		storageCollectorInstance = NewStorageCollector(prometheus.DefaultRegisterer)
	})
	return storageCollectorInstance
}

func NewStorageCollector(registerer prometheus.Registerer) *StorageCollector {
	return &StorageCollector{
		retriedTransactions: promauto.With(registerer).NewCounter(prometheus.CounterOpts{
			Name:      "txn_retried_total",
			Namespace: namespaceStorage,
			Subsystem: subsystemBadger,
			Help:      "number of badger transactions retried due to a conflict",
		}),
	}
}

func (sc *StorageCollector) RetryOnConflict() {
	sc.retriedTransactions.Inc()
}
