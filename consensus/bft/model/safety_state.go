package model

import "fmt"

// SafetyState is the state a validator must never contradict.
//
// Invariants: LockedRound never decreases, and LastVote is only replaced by a vote for a
// higher round or by the timeout augmentation of the same vote.
type SafetyState struct {
	ValidatorID ValidatorID
	// Epoch is the epoch the state was created for. Rounds restart with every epoch.
	Epoch uint64
	// LockedRound is the highest 2-chain head the validator voted for
	LockedRound Round
	LastVote    *Vote
}

// InitialSafetyState is the state of a validator which has not voted in the epoch.
func InitialSafetyState(validatorID ValidatorID, epoch uint64) SafetyState {
	return SafetyState{ValidatorID: validatorID, Epoch: epoch, LockedRound: GenesisRound}
}

// LastVotedRound is the round of the last vote, GenesisRound if the validator never voted.
func (s SafetyState) LastVotedRound() Round {
	if s.LastVote == nil {
		return GenesisRound
	}
	return s.LastVote.Round()
}

func (s SafetyState) String() string {
	return fmt.Sprintf("SafetyState{validator=%s epoch=%d locked_round=%d last_vote=%v}",
		s.ValidatorID.ShortString(), s.Epoch, s.LockedRound, s.LastVote)
}

// SafetyStateUpdate describes the fields a safety decision changes.
type SafetyStateUpdate struct {
	LockedRound *Round
	LastVote    *Vote
}

func (u SafetyStateUpdate) IsEmpty() bool {
	return u.LockedRound == nil && u.LastVote == nil
}

// Apply returns the state after the update. An empty update returns the state unchanged.
// The locked round never moves backwards, and the last vote is only replaced by a vote of a
// higher round or by the timeout form of the same vote.
func (s SafetyState) Apply(update SafetyStateUpdate) SafetyState {
	if update.IsEmpty() {
		return s
	}
	next := s
	if update.LockedRound != nil && *update.LockedRound > s.LockedRound {
		next.LockedRound = *update.LockedRound
	}
	if update.LastVote != nil && s.replacesLastVote(update.LastVote) {
		next.LastVote = update.LastVote
	}
	return next
}

func (s SafetyState) replacesLastVote(vote *Vote) bool {
	if s.LastVote == nil || vote.Round() > s.LastVote.Round() {
		return true
	}
	return vote.IsTimeout() && !s.LastVote.IsTimeout() && s.LastVote.SameVote(vote)
}
