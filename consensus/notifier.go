package consensus

import (
	"github.com/rs/zerolog"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/notifications"
	"github.com/onflow/chainbft/consensus/bft/notifications/pubsub"
)

// CreateNotifier creates the distributor of vertex store events. Every event is logged and
// checkpointed, commits are additionally passed to the committed consumer.
func CreateNotifier(log zerolog.Logger, checkpoints bft.VertexStoreConsumer, committed pubsub.OnCommittedConsumer) *pubsub.VertexStoreDistributor {
	logConsumer := notifications.NewLogConsumer(log)
	dis := pubsub.NewVertexStoreDistributor()
	dis.AddConsumer(logConsumer)
	dis.AddConsumer(checkpoints)
	dis.AddOnCommittedConsumer(committed)
	return dis
}
