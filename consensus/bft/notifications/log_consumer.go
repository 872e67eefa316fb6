package notifications

import (
	"github.com/rs/zerolog"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/utils/logging"
)

// LogConsumer is an implementation of the notifications consumer that logs a
// message for each event.
type LogConsumer struct {
	log zerolog.Logger
}

var _ bft.VertexStoreConsumer = (*LogConsumer)(nil)

func NewLogConsumer(log zerolog.Logger) *LogConsumer {
	lc := &LogConsumer{
		log: log,
	}
	return lc
}

func (lc *LogConsumer) OnVertexInserted(update model.BFTInsertUpdate) error {
	v := update.Inserted
	lc.log.Debug().
		Uint64("round", uint64(v.Round())).
		Hex("vertex_id", logging.Hash(v.VertexHash())).
		Hex("parent_id", logging.Hash(v.ParentID())).
		Int("transactions", len(v.Successful)).
		Int("state_size", len(update.SerializedState)).
		Msg("vertex inserted")
	return nil
}

func (lc *LogConsumer) OnRebuild(update model.BFTRebuildUpdate) error {
	root := update.State.Root()
	lc.log.Info().
		Uint64("root_round", uint64(root.Round())).
		Hex("root_id", logging.Hash(root.Hash)).
		Int("vertices", len(update.State.Vertices())).
		Msg("vertex store rebuilt")
	return nil
}

func (lc *LogConsumer) OnCommitted(update model.BFTCommittedUpdate) error {
	if len(update.Committed) == 0 {
		return nil
	}
	tip := update.Committed[len(update.Committed)-1]
	lc.log.Debug().
		Uint64("round", uint64(tip.Round())).
		Hex("vertex_id", logging.Hash(tip.VertexHash())).
		Uint64("state_version", tip.LedgerHeader.StateVersion()).
		Int("committed", len(update.Committed)).
		Msg("vertices committed")
	return nil
}

func (lc *LogConsumer) OnHighQCUpdate(update model.BFTHighQCUpdate) error {
	entry := lc.log.Debug().
		Uint64("highest_qc_round", uint64(update.HighQC.HighestQC.Round())).
		Uint64("highest_committed_qc_round", uint64(update.HighQC.HighestCommittedQC.Round()))
	if tc := update.HighQC.HighestTC; tc != nil {
		entry.Uint64("highest_tc_round", uint64(tc.Round))
	}
	entry.Msg("high qc updated")
	return nil
}
