package cmd

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/onflow/chainbft/cmd/util/cmd/common"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/storage"
)

var flagVerify bool

func init() {
	readVertexStoreCmd.Flags().BoolVar(&flagVerify, "verify", false, "check that the checkpoint can be rebuilt into a vertex store")
}

var readVertexStoreCmd = &cobra.Command{
	Use:   "read-vertex-store",
	Short: "print the persisted vertex store checkpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, storages, err := common.InitStorages(log.Logger, flagDatadir)
		if err != nil {
			return err
		}
		defer db.Close()

		serialized, err := storages.Checkpoints.Load()
		if errors.Is(err, storage.ErrNotFound) {
			log.Info().Msg("no vertex store checkpoint stored")
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not read vertex store checkpoint: %w", err)
		}

		if flagVerify {
			_, err = serialized.ToVertexStoreState(log.Logger, hash.DefaultHasher)
			if err != nil {
				return fmt.Errorf("checkpoint is invalid: %w", err)
			}
			log.Info().Msg("checkpoint is valid")
		}
		return common.PrettyPrint(cmd.OutOrStdout(), newVertexStoreSummary(serialized, hash.DefaultHasher))
	},
}

type vertexSummary struct {
	Round        uint64 `json:"round"`
	ID           string `json:"id"`
	Parent       string `json:"parent"`
	Transactions int    `json:"transactions"`
	Fallback     bool   `json:"fallback,omitempty"`
}

type vertexStoreSummary struct {
	Epoch                   uint64          `json:"epoch"`
	Root                    vertexSummary   `json:"root"`
	Vertices                []vertexSummary `json:"vertices"`
	HighestQCRound          uint64          `json:"highest_qc_round"`
	HighestCommittedQCRound uint64          `json:"highest_committed_qc_round"`
	HighestTCRound          *uint64         `json:"highest_tc_round,omitempty"`
}

func newVertexSummary(v *model.Vertex, hasher hash.Hasher) vertexSummary {
	return vertexSummary{
		Round:        uint64(v.Round),
		ID:           v.WithID(hasher).Hash.String(),
		Parent:       v.ParentVertexID().String(),
		Transactions: len(v.Transactions),
		Fallback:     v.IsFallback,
	}
}

func newVertexStoreSummary(s *model.SerializedVertexStoreState, hasher hash.Hasher) vertexStoreSummary {
	summary := vertexStoreSummary{
		Epoch:                   s.HighQC.HighestQC.Epoch(),
		Root:                    newVertexSummary(s.Root, hasher),
		Vertices:                make([]vertexSummary, 0, len(s.Vertices)),
		HighestQCRound:          uint64(s.HighQC.HighestQC.Round()),
		HighestCommittedQCRound: uint64(s.HighQC.HighestCommittedQC.Round()),
	}
	for _, v := range s.Vertices {
		summary.Vertices = append(summary.Vertices, newVertexSummary(v, hasher))
	}
	if tc := s.HighQC.HighestTC; tc != nil {
		round := uint64(tc.Round)
		summary.HighestTCRound = &round
	}
	return summary
}
