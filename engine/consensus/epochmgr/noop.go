package epochmgr

import (
	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
)

// noopProcessor ignores all consensus messages of an epoch the node does not validate in.
type noopProcessor struct{}

var (
	_ bft.EventProcessor       = (*noopProcessor)(nil)
	_ bft.SyncProcessor        = (*noopProcessor)(nil)
	_ bft.SyncRequestProcessor = (*noopProcessor)(nil)
)

func (*noopProcessor) Start() error                                          { return nil }
func (*noopProcessor) ProcessProposal(*model.Proposal) error                 { return nil }
func (*noopProcessor) ProcessVote(*model.Vote) error                         { return nil }
func (*noopProcessor) ProcessLocalTimeout(model.ScheduledLocalTimeout) error { return nil }
func (*noopProcessor) ProcessRoundUpdate(model.RoundUpdate) error            { return nil }
func (*noopProcessor) ProcessProposalRejected(model.ProposalRejected) error {
	return nil
}
func (*noopProcessor) ProcessTimeoutQuorumDelayedResolution(model.TimeoutQuorumDelayedResolution) error {
	return nil
}
func (*noopProcessor) ProcessBFTUpdate(model.BFTInsertUpdate) error                 { return nil }
func (*noopProcessor) ProcessBFTRebuildUpdate(model.BFTRebuildUpdate) error         { return nil }
func (*noopProcessor) ProcessLedgerUpdate(model.LedgerUpdate) error                 { return nil }
func (*noopProcessor) ProcessVertexRequestTimeout(model.VertexRequestTimeout) error { return nil }
func (*noopProcessor) ProcessGetVerticesResponse(model.ValidatorID, model.GetVerticesResponse) error {
	return nil
}
func (*noopProcessor) ProcessGetVerticesErrorResponse(model.ValidatorID, model.GetVerticesErrorResponse) error {
	return nil
}
func (*noopProcessor) ProcessGetVerticesRequest(model.ValidatorID, model.GetVerticesRequest) error {
	return nil
}
