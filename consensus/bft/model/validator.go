package model

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"golang.org/x/exp/slices"
)

// ValidatorIDLen is the length of a compressed secp256k1 public key.
const ValidatorIDLen = 33

// ValidatorID identifies a validator by its compressed secp256k1 public key. It is also
// used as the peer address of the validator's node.
type ValidatorID [ValidatorIDLen]byte

func (id ValidatorID) String() string {
	return hex.EncodeToString(id[:])
}

// ShortString returns a prefix of the hex encoding for log output.
func (id ValidatorID) ShortString() string {
	return hex.EncodeToString(id[:6])
}

func (id ValidatorID) Compare(other ValidatorID) int {
	return bytes.Compare(id[:], other[:])
}

// Validator is a member of an epoch's validator set with its voting power.
type Validator struct {
	ID    ValidatorID
	Power uint64
}

// ValidatorSet is the immutable set of validators of one epoch.
type ValidatorSet struct {
	validators []Validator
	powers     map[ValidatorID]uint64
	totalPower uint64
}

// NewValidatorSet creates a validator set. Validators are ordered by id. Duplicate ids and
// validators without voting power are rejected.
func NewValidatorSet(validators []Validator) (*ValidatorSet, error) {
	sorted := make([]Validator, len(validators))
	copy(sorted, validators)
	slices.SortFunc(sorted, func(a, b Validator) int { return a.ID.Compare(b.ID) })

	powers := make(map[ValidatorID]uint64, len(sorted))
	var total uint64
	for _, v := range sorted {
		if v.Power == 0 {
			return nil, fmt.Errorf("validator %s has zero voting power", v.ID)
		}
		if _, duplicate := powers[v.ID]; duplicate {
			return nil, fmt.Errorf("duplicate validator %s", v.ID)
		}
		powers[v.ID] = v.Power
		total += v.Power
	}
	if len(sorted) == 0 {
		return nil, fmt.Errorf("validator set must not be empty")
	}

	return &ValidatorSet{
		validators: sorted,
		powers:     powers,
		totalPower: total,
	}, nil
}

func (s *ValidatorSet) Contains(id ValidatorID) bool {
	_, ok := s.powers[id]
	return ok
}

// Power returns the voting power of the validator, zero for non-members.
func (s *ValidatorSet) Power(id ValidatorID) uint64 {
	return s.powers[id]
}

// Validators returns the members ordered by id.
func (s *ValidatorSet) Validators() []Validator {
	out := make([]Validator, len(s.validators))
	copy(out, s.validators)
	return out
}

func (s *ValidatorSet) TotalPower() uint64 {
	return s.totalPower
}

// QuorumThreshold is the minimal voting power tolerating (total-1)/3 faulty power.
func (s *ValidatorSet) QuorumThreshold() uint64 {
	return s.totalPower - (s.totalPower-1)/3
}

// ValidationState accumulates signatures of distinct validators until a quorum of voting
// power is reached. Not concurrency safe.
type ValidationState struct {
	validatorSet *ValidatorSet
	signatures   map[ValidatorID]TimestampedSignature
	signedPower  uint64
}

func NewValidationState(validatorSet *ValidatorSet) *ValidationState {
	return &ValidationState{
		validatorSet: validatorSet,
		signatures:   make(map[ValidatorID]TimestampedSignature),
	}
}

// AddSignature records the signature. Returns false if the signer is not a member of the
// validator set or already signed.
func (v *ValidationState) AddSignature(signer ValidatorID, timestamp int64, signature []byte) bool {
	power := v.validatorSet.Power(signer)
	if power == 0 {
		return false
	}
	if _, seen := v.signatures[signer]; seen {
		return false
	}
	v.signatures[signer] = TimestampedSignature{Signer: signer, Timestamp: timestamp, Signature: signature}
	v.signedPower += power
	return true
}

// Complete returns true once the signers hold at least the quorum threshold.
func (v *ValidationState) Complete() bool {
	return v.signedPower >= v.validatorSet.QuorumThreshold()
}

func (v *ValidationState) Signatures() TimestampedSignatures {
	sigs := make([]TimestampedSignature, 0, len(v.signatures))
	for _, sig := range v.signatures {
		sigs = append(sigs, sig)
	}
	return NewTimestampedSignatures(sigs...)
}
