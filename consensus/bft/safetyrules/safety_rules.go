package safetyrules

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
	"github.com/onflow/chainbft/model/hash"
	"github.com/onflow/chainbft/module"
	"github.com/onflow/chainbft/module/irrecoverable"
	"github.com/onflow/chainbft/utils/logging"
)

const (
	kindQC = "qc"
	kindTC = "tc"

	ruleLastVoted = "last_voted"
	ruleLocked    = "locked"
	ruleNotLast   = "not_last_vote"
)

// SafetyRules is the only component allowed to sign votes and proposals of the local
// validator. It guarantees that the validator never votes twice in a round and never votes
// against its lock, and persists its state before any signed message is returned.
//
// Voting and signing are NOT concurrency safe. Certificate verification only reads immutable
// state and can be called concurrently.
type SafetyRules struct {
	log          zerolog.Logger
	hasher       hash.Hasher
	signer       bft.HashSigner
	verifier     bft.HashVerifier
	validatorSet *model.ValidatorSet
	store        bft.PersistentSafetyStateStore
	metrics      module.SafetyRulesMetrics
	workers      int

	// verified remembers hashes of certificates which passed verification. Invalid
	// certificates are never cached.
	verified *lru.Cache[hash.Hash, struct{}]
	state    model.SafetyState
}

// New creates SafetyRules for one epoch. The initial state is usually obtained through
// InitialSafetyState.
func New(
	log zerolog.Logger,
	hasher hash.Hasher,
	signer bft.HashSigner,
	verifier bft.HashVerifier,
	validatorSet *model.ValidatorSet,
	store bft.PersistentSafetyStateStore,
	metrics module.SafetyRulesMetrics,
	config Config,
	initialState model.SafetyState,
) (*SafetyRules, error) {
	verified, err := lru.New[hash.Hash, struct{}](config.VerifiedCertificatesCacheSize)
	if err != nil {
		return nil, fmt.Errorf("could not create verified certificates cache: %w", err)
	}
	workers := config.VerificationWorkers
	if workers < 1 {
		workers = 1
	}
	return &SafetyRules{
		log:          log.With().Str("component", "safety_rules").Hex("validator", logging.ValidatorID(initialState.ValidatorID)).Logger(),
		hasher:       hasher,
		signer:       signer,
		verifier:     verifier,
		validatorSet: validatorSet,
		store:        store,
		metrics:      metrics,
		workers:      workers,
		verified:     verified,
		state:        initialState,
	}, nil
}

// State returns a copy of the current safety state.
func (s *SafetyRules) State() model.SafetyState {
	return s.state
}

// checkLastVoted refuses to vote in a round at or below the last voted round.
func (s *SafetyRules) checkLastVoted(round model.Round) error {
	lastVoted := s.state.LastVotedRound()
	if round <= lastVoted {
		s.log.Warn().
			Uint64("round", uint64(round)).
			Uint64("last_voted_round", uint64(lastVoted)).
			Msg("refusing to vote, round is not above last voted round")
		s.metrics.VoteRejected(ruleLastVoted)
		return model.NoVoteError{Msg: fmt.Sprintf("round %d is not above last voted round %d", round, lastVoted)}
	}
	return nil
}

// checkLocked refuses vertices extending a parent below the locked round. For an acceptable
// vertex it returns the updated locked round if the grandparent is above the current lock,
// nil otherwise.
func (s *SafetyRules) checkLocked(vertex *model.Vertex) (*model.Round, bool) {
	parentRound := vertex.ParentHeader().Round
	if parentRound < s.state.LockedRound {
		s.log.Warn().
			Uint64("round", uint64(vertex.Round)).
			Uint64("parent_round", uint64(parentRound)).
			Uint64("locked_round", uint64(s.state.LockedRound)).
			Msg("refusing vertex, parent round is below locked round")
		return nil, false
	}
	grandParentRound := vertex.GrandParentHeader().Round
	if grandParentRound > s.state.LockedRound {
		return &grandParentRound, true
	}
	return nil, true
}

// persist stores the next state and only then makes it current.
func (s *SafetyRules) persist(next model.SafetyState) error {
	err := s.store.CommitState(next)
	if err != nil {
		return irrecoverable.NewExceptionf("could not persist safety state: %w", err)
	}
	s.state = next
	return nil
}

// CreateVote votes for the vertex which was executed to the proposed header.
// Expected error returns during normal operations:
//   - model.NoVoteError if voting would violate a safety rule
func (s *SafetyRules) CreateVote(vertex *model.VertexWithHash, proposed model.Header, timestamp int64, highQC model.HighQC) (*model.Vote, error) {
	err := s.checkLastVoted(vertex.Round())
	if err != nil {
		return nil, err
	}
	lockedRound, ok := s.checkLocked(vertex.Vertex)
	if !ok {
		s.metrics.VoteRejected(ruleLocked)
		return nil, model.NoVoteError{Msg: fmt.Sprintf("parent round %d is below locked round %d",
			vertex.Vertex.ParentHeader().Round, s.state.LockedRound)}
	}

	voteData := model.NewVoteData(vertex.Vertex, proposed)
	signature, err := s.signer.Sign(voteData.ToConsensusVoteHash(s.hasher, timestamp))
	if err != nil {
		return nil, irrecoverable.NewExceptionf("could not sign vote: %w", err)
	}
	vote := &model.Vote{
		Author:    s.state.ValidatorID,
		VoteData:  voteData,
		Timestamp: timestamp,
		Signature: signature,
		HighQC:    highQC,
	}

	err = s.persist(s.state.Apply(model.SafetyStateUpdate{LockedRound: lockedRound, LastVote: vote}))
	if err != nil {
		return nil, err
	}
	s.metrics.VoteCreated()
	s.log.Debug().
		Uint64("round", uint64(vote.Round())).
		Hex("vertex_id", logging.Hash(vertex.Hash)).
		Uint64("locked_round", uint64(s.state.LockedRound)).
		Msg("voted for vertex")
	return vote, nil
}

// TimeoutVote attaches a timeout signature to the last vote. A vote which already is a
// timeout vote is returned unchanged. Only the last vote can time out, so a timeout never
// moves the last voted round backwards.
// Expected error returns during normal operations:
//   - model.NoVoteError if the vote is not the validator's last vote
func (s *SafetyRules) TimeoutVote(vote *model.Vote) (*model.Vote, error) {
	if vote.IsTimeout() {
		return vote, nil
	}
	lastVote := s.state.LastVote
	if lastVote == nil || !lastVote.SameVote(vote) {
		s.log.Warn().
			Uint64("round", uint64(vote.Round())).
			Uint64("last_voted_round", uint64(s.state.LastVotedRound())).
			Msg("refusing to time out a vote which is not the last vote")
		s.metrics.VoteRejected(ruleNotLast)
		return nil, model.NoVoteError{Msg: fmt.Sprintf("vote of round %d is not the last vote of round %d",
			vote.Round(), s.state.LastVotedRound())}
	}
	if lastVote.IsTimeout() {
		return lastVote, nil
	}
	signature, err := s.signer.Sign(s.hasher.HashEncoded(model.VoteTimeoutOf(vote)))
	if err != nil {
		return nil, irrecoverable.NewExceptionf("could not sign timeout: %w", err)
	}
	timeoutVote := vote.WithTimeoutSignature(signature)

	err = s.persist(s.state.Apply(model.SafetyStateUpdate{LastVote: timeoutVote}))
	if err != nil {
		return nil, err
	}
	s.metrics.TimeoutVoteCreated()
	s.log.Debug().Uint64("round", uint64(vote.Round())).Msg("timed out round")
	return timeoutVote, nil
}

// SignProposal signs the vertex proposed by the local validator. Only the locking rule
// applies, since the proposer has not voted in the proposal's round yet. A lock advanced by
// the proposal is persisted before the proposal is returned.
// Expected error returns during normal operations:
//   - model.NoProposalError if the vertex extends a parent below the locked round
func (s *SafetyRules) SignProposal(vertex *model.VertexWithHash, highestCommittedQC *model.QuorumCertificate, highestTC *model.TimeoutCertificate) (*model.Proposal, error) {
	lockedRound, ok := s.checkLocked(vertex.Vertex)
	if !ok {
		return nil, model.NoProposalError{Msg: fmt.Sprintf("parent round %d is below locked round %d",
			vertex.Vertex.ParentHeader().Round, s.state.LockedRound)}
	}
	if lockedRound != nil {
		err := s.persist(s.state.Apply(model.SafetyStateUpdate{LockedRound: lockedRound}))
		if err != nil {
			return nil, err
		}
	}

	signature, err := s.signer.Sign(vertex.Hash)
	if err != nil {
		return nil, irrecoverable.NewExceptionf("could not sign proposal: %w", err)
	}
	return &model.Proposal{
		Vertex:             vertex.Vertex,
		HighestCommittedQC: *highestCommittedQC,
		Signature:          signature,
		HighestTC:          highestTC,
	}, nil
}

// LastVote returns the last vote if it was cast in the given round.
func (s *SafetyRules) LastVote(round model.Round) (*model.Vote, bool) {
	lastVote := s.state.LastVote
	if lastVote == nil || lastVote.Round() != round {
		return nil, false
	}
	return lastVote, true
}

// VerifyHighQcAgainstTheValidatorSet verifies all certificates of the high QC.
func (s *SafetyRules) VerifyHighQcAgainstTheValidatorSet(highQC model.HighQC) bool {
	if !s.VerifyQcAgainstTheValidatorSet(highQC.HighestQC) {
		return false
	}
	if !s.VerifyQcAgainstTheValidatorSet(highQC.HighestCommittedQC) {
		return false
	}
	return highQC.HighestTC == nil || s.VerifyTcAgainstTheValidatorSet(highQC.HighestTC)
}

// VerifyQcAgainstTheValidatorSet returns whether all signatures of the QC are valid and the
// signers hold a quorum of voting power. The initial epoch QC carries no signatures and is
// always valid.
func (s *SafetyRules) VerifyQcAgainstTheValidatorSet(qc *model.QuorumCertificate) bool {
	qcHash := s.hasher.HashEncoded(qc)
	if _, ok := s.verified.Get(qcHash); ok {
		s.metrics.VerificationCacheHit(kindQC)
		return true
	}
	if qc.IsInitialEpochQC() {
		return true
	}

	start := time.Now()
	valid := s.verifyQc(qc)
	s.metrics.CertificateVerified(kindQC, valid, time.Since(start))
	if valid {
		s.verified.Add(qcHash, struct{}{})
	}
	return valid
}

func (s *SafetyRules) verifyQc(qc *model.QuorumCertificate) bool {
	voteDataHash := s.hasher.HashEncoded(qc.VoteData)
	committed := qc.VoteData.CommittedLedgerHeader()
	err := s.verifySignatures(qc.Signatures.Signatures, func(sig model.TimestampedSignature) hash.Hash {
		return model.ConsensusVoteHash(s.hasher, voteDataHash, committed, sig.Timestamp)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("qc", qc.String()).Msg("qc has invalid signatures")
		return false
	}

	validation := model.NewValidationState(s.validatorSet)
	for _, sig := range qc.Signatures.Signatures {
		if !validation.AddSignature(sig.Signer, sig.Timestamp, sig.Signature) {
			s.log.Warn().
				Hex("signer", logging.ValidatorID(sig.Signer)).
				Str("qc", qc.String()).
				Msg("qc signer is not a member of the validator set or signed twice")
			return false
		}
	}
	if !validation.Complete() {
		s.log.Warn().Str("qc", qc.String()).Msg("qc signers do not hold a quorum")
		return false
	}
	return true
}

// VerifyTcAgainstTheValidatorSet returns whether all signers of the TC are members of the
// validator set and all timeout signatures are valid.
func (s *SafetyRules) VerifyTcAgainstTheValidatorSet(tc *model.TimeoutCertificate) bool {
	tcHash := s.hasher.HashEncoded(tc)
	if _, ok := s.verified.Get(tcHash); ok {
		s.metrics.VerificationCacheHit(kindTC)
		return true
	}

	start := time.Now()
	valid := s.verifyTc(tc)
	s.metrics.CertificateVerified(kindTC, valid, time.Since(start))
	if valid {
		s.verified.Add(tcHash, struct{}{})
	}
	return valid
}

func (s *SafetyRules) verifyTc(tc *model.TimeoutCertificate) bool {
	for _, signer := range tc.Signers() {
		if !s.validatorSet.Contains(signer) {
			s.log.Warn().
				Hex("signer", logging.ValidatorID(signer)).
				Str("tc", tc.String()).
				Msg("tc signer is not a member of the validator set")
			return false
		}
	}
	timeoutHash := s.hasher.HashEncoded(model.VoteTimeout{Round: tc.Round, Epoch: tc.Epoch})
	err := s.verifySignatures(tc.Signatures.Signatures, func(model.TimestampedSignature) hash.Hash {
		return timeoutHash
	})
	if err != nil {
		s.log.Warn().Err(err).Str("tc", tc.String()).Msg("tc has invalid signatures")
		return false
	}
	return true
}

// verifySignatures checks all signatures in parallel and returns an error listing every
// invalid one.
func (s *SafetyRules) verifySignatures(sigs []model.TimestampedSignature, hashOf func(model.TimestampedSignature) hash.Hash) error {
	var (
		mu      sync.Mutex
		invalid *multierror.Error
	)
	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, sig := range sigs {
		sig := sig
		g.Go(func() error {
			if s.verifier.Verify(sig.Signer, hashOf(sig), sig.Signature) {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			invalid = multierror.Append(invalid, fmt.Errorf("invalid signature of %s", sig.Signer.ShortString()))
			return nil
		})
	}
	_ = g.Wait()
	return invalid.ErrorOrNil()
}
