package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/onflow/chainbft/cmd/util/cmd/common"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/storage"
)

var readSafetyStateCmd = &cobra.Command{
	Use:   "read-safety-state",
	Short: "print the persisted safety state of the validator",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, storages, err := common.InitStorages(log.Logger, flagDatadir)
		if err != nil {
			return err
		}
		defer db.Close()

		state, err := storages.SafetyStates.Get()
		if errors.Is(err, storage.ErrNotFound) {
			log.Info().Msg("no safety state stored, the validator has not voted yet")
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not read safety state: %w", err)
		}
		return common.PrettyPrint(cmd.OutOrStdout(), newSafetyStateSummary(state))
	},
}

type voteSummary struct {
	Epoch     uint64 `json:"epoch"`
	Round     uint64 `json:"round"`
	VertexID  string `json:"vertex_id"`
	Timestamp int64  `json:"timestamp"`
	Timeout   bool   `json:"timeout"`
}

type safetyStateSummary struct {
	ValidatorID string       `json:"validator_id"`
	Epoch       uint64       `json:"epoch"`
	LockedRound uint64       `json:"locked_round"`
	LastVote    *voteSummary `json:"last_vote,omitempty"`
}

func newSafetyStateSummary(state *model.SafetyState) safetyStateSummary {
	summary := safetyStateSummary{
		ValidatorID: state.ValidatorID.String(),
		Epoch:       state.Epoch,
		LockedRound: uint64(state.LockedRound),
	}
	if vote := state.LastVote; vote != nil {
		summary.LastVote = &voteSummary{
			Epoch:     vote.Epoch(),
			Round:     uint64(vote.Round()),
			VertexID:  vote.VoteData.Proposed.VertexID.String(),
			Timestamp: vote.Timestamp,
			Timeout:   vote.IsTimeout(),
		}
	}
	return summary
}
