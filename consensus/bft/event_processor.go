package bft

import (
	"github.com/onflow/chainbft/consensus/bft/model"
)

// EventProcessor is the per-epoch BFT pipeline driven by the epoch manager: it consults safety
// rules before voting and the vertex store before advancing the round. All methods are called
// from the consensus runner's single goroutine.
// All errors returned are unexpected and fatal.
type EventProcessor interface {
	Start() error
	ProcessProposal(proposal *model.Proposal) error
	ProcessVote(vote *model.Vote) error
	ProcessLocalTimeout(timeout model.ScheduledLocalTimeout) error
	ProcessRoundUpdate(update model.RoundUpdate) error
	ProcessProposalRejected(rejected model.ProposalRejected) error
	ProcessTimeoutQuorumDelayedResolution(resolution model.TimeoutQuorumDelayedResolution) error
	ProcessBFTUpdate(update model.BFTInsertUpdate) error
	ProcessBFTRebuildUpdate(update model.BFTRebuildUpdate) error
}

// SyncProcessor fetches missing vertex chains from peers for one epoch.
// All errors returned are unexpected and fatal.
type SyncProcessor interface {
	ProcessLedgerUpdate(update model.LedgerUpdate) error
	ProcessVertexRequestTimeout(timeout model.VertexRequestTimeout) error
	ProcessGetVerticesResponse(sender model.ValidatorID, response model.GetVerticesResponse) error
	ProcessGetVerticesErrorResponse(sender model.ValidatorID, response model.GetVerticesErrorResponse) error
}

// SyncRequestProcessor answers vertex requests of peers.
// All errors returned are unexpected and fatal.
type SyncRequestProcessor interface {
	ProcessGetVerticesRequest(sender model.ValidatorID, request model.GetVerticesRequest) error
}
