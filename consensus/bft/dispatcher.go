package bft

import (
	"github.com/onflow/chainbft/consensus/bft/model"
)

// LedgerStatusUpdateDispatcher sends ledger status updates to a peer. Dispatching must not block.
type LedgerStatusUpdateDispatcher interface {
	DispatchLedgerStatusUpdate(recipient model.ValidatorID, update model.LedgerStatusUpdate)
}

// VerticesResponseDispatcher sends responses to vertex requests to a peer. Dispatching must not block.
type VerticesResponseDispatcher interface {
	DispatchGetVerticesResponse(recipient model.ValidatorID, response model.GetVerticesResponse)
	DispatchGetVerticesErrorResponse(recipient model.ValidatorID, response model.GetVerticesErrorResponse)
}

// LedgerUpdateDispatcher publishes ledger updates to the consensus runner. Dispatching must
// not block, as it is called while the ledger is locked.
type LedgerUpdateDispatcher interface {
	DispatchLedgerUpdate(update model.LedgerUpdate)
}
