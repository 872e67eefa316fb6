package synchronization

import (
	"github.com/rs/zerolog"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/utils/logging"
)

// RequestProcessor answers GetVerticesRequests of peers from the local vertex store. Known
// vertices are returned in a GetVerticesResponse. Otherwise the peer receives the local high
// QC and committed proof, so that it can sync the ledger instead.
type RequestProcessor struct {
	log        zerolog.Logger
	hasher     hash.Hasher
	store      bft.VertexStoreReader
	dispatcher bft.VerticesResponseDispatcher
	config     *Config
}

var _ bft.SyncRequestProcessor = (*RequestProcessor)(nil)

func NewRequestProcessor(
	log zerolog.Logger,
	hasher hash.Hasher,
	store bft.VertexStoreReader,
	dispatcher bft.VerticesResponseDispatcher,
	opts ...OptionFunc,
) *RequestProcessor {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return &RequestProcessor{
		log:        log.With().Str("component", "bft_sync_request_processor").Logger(),
		hasher:     hasher,
		store:      store,
		dispatcher: dispatcher,
		config:     config,
	}
}

// ProcessGetVerticesRequest answers the request. Malformed requests are dropped.
// No errors are expected during normal operation.
func (p *RequestProcessor) ProcessGetVerticesRequest(sender model.ValidatorID, request model.GetVerticesRequest) error {
	log := p.log.With().
		Hex("origin_id", logging.ValidatorID(sender)).
		Hex("vertex_id", logging.Hash(request.VertexID)).
		Int("count", request.Count).
		Logger()

	if request.Count < 1 || request.Count > p.config.MaxRequestedVertices {
		log.Warn().Int("max_count", p.config.MaxRequestedVertices).Msg("dropping vertices request with invalid count")
		return nil
	}

	fetched, ok := p.store.GetVertices(request.VertexID, request.Count)
	if !ok {
		highQC := p.store.HighQC()
		_, proof, _ := highQC.HighestCommittedQC.CommittedAndLedgerProof(p.hasher)
		log.Debug().Msg("requested vertices are unknown, responding with high qc")
		p.dispatcher.DispatchGetVerticesErrorResponse(sender, model.GetVerticesErrorResponse{
			HighQC:               highQC,
			LatestCommittedProof: proof,
			Request:              request,
		})
		return nil
	}

	vertices := make([]*model.Vertex, 0, len(fetched))
	for _, v := range fetched {
		vertices = append(vertices, v.Vertex)
	}
	log.Debug().Msg("responding with requested vertices")
	p.dispatcher.DispatchGetVerticesResponse(sender, model.GetVerticesResponse{Vertices: vertices})
	return nil
}
