package model

import (
	"golang.org/x/exp/slices"
)

// TimestampedSignature is a validator's signature over a consensus hash which commits to
// the validator's local timestamp (milliseconds since Unix epoch).
type TimestampedSignature struct {
	Signer    ValidatorID
	Timestamp int64
	Signature []byte
}

// TimestampedSignatures is the aggregated set of signatures of a certificate, ordered by signer.
type TimestampedSignatures struct {
	Signatures []TimestampedSignature
}

// NewTimestampedSignatures orders the signatures by signer id so that equal sets have an
// equal encoding.
func NewTimestampedSignatures(sigs ...TimestampedSignature) TimestampedSignatures {
	sorted := make([]TimestampedSignature, len(sigs))
	copy(sorted, sigs)
	slices.SortFunc(sorted, func(a, b TimestampedSignature) int { return a.Signer.Compare(b.Signer) })
	return TimestampedSignatures{Signatures: sorted}
}

func (s TimestampedSignatures) Count() int {
	return len(s.Signatures)
}

func (s TimestampedSignatures) Signers() []ValidatorID {
	signers := make([]ValidatorID, 0, len(s.Signatures))
	for _, sig := range s.Signatures {
		signers = append(signers, sig.Signer)
	}
	return signers
}

// MedianTimestamp returns the median of the signers' timestamps, zero without signatures.
func (s TimestampedSignatures) MedianTimestamp() int64 {
	if len(s.Signatures) == 0 {
		return 0
	}
	timestamps := make([]int64, 0, len(s.Signatures))
	for _, sig := range s.Signatures {
		timestamps = append(timestamps, sig.Timestamp)
	}
	slices.Sort(timestamps)
	return timestamps[len(timestamps)/2]
}
