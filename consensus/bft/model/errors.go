package model

import (
	"errors"
	"fmt"

	"github.com/onflow/chainbft/model/hash"
)

// NoVoteError contains the reason why SafetyRules refused to vote. This is expected during
// normal operation and must not be treated as a failure.
type NoVoteError struct {
	Msg string
}

func (e NoVoteError) Error() string { return e.Msg }

// IsNoVoteError returns whether an error is NoVoteError
func IsNoVoteError(err error) bool {
	var e NoVoteError
	return errors.As(err, &e)
}

// NoProposalError contains the reason why SafetyRules refused to sign a proposal.
type NoProposalError struct {
	Msg string
}

func (e NoProposalError) Error() string { return e.Msg }

// IsNoProposalError returns whether an error is NoProposalError
func IsNoProposalError(err error) bool {
	var e NoProposalError
	return errors.As(err, &e)
}

// MissingParentError indicates an attempt to insert a vertex whose parent is unknown.
// Callers must check for the parent first, so this is a symptom of a bug.
type MissingParentError struct {
	ParentID hash.Hash
}

func (e MissingParentError) Error() string {
	return fmt.Sprintf("parent vertex %s is missing", e.ParentID)
}

// IsMissingParentError returns whether an error is MissingParentError
func IsMissingParentError(err error) bool {
	var e MissingParentError
	return errors.As(err, &e)
}

// RebuildErrorKind is the reason a vertex store snapshot could not be resumed from.
type RebuildErrorKind int

const (
	VertexStoreSizeExceeded RebuildErrorKind = iota + 1
	VertexExecutionError
)

func (k RebuildErrorKind) String() string {
	switch k {
	case VertexStoreSizeExceeded:
		return "VERTEX_STORE_SIZE_EXCEEDED"
	case VertexExecutionError:
		return "VERTEX_EXECUTION_ERROR"
	default:
		return fmt.Sprintf("RebuildErrorKind(%d)", int(k))
	}
}

// RebuildError indicates a snapshot that cannot safely be resumed from. Operators need to
// intervene, for example by resyncing.
type RebuildError struct {
	Kind RebuildErrorKind
}

func (e RebuildError) Error() string {
	return fmt.Sprintf("could not rebuild vertex store: %s", e.Kind)
}

// IsRebuildError returns whether an error is RebuildError
func IsRebuildError(err error) bool {
	var e RebuildError
	return errors.As(err, &e)
}

// AsRebuildError determines whether the given error is a RebuildError (potentially wrapped).
func AsRebuildError(err error) (*RebuildError, bool) {
	var e RebuildError
	ok := errors.As(err, &e)
	if ok {
		return &e, true
	}
	return nil, false
}

// PrepareRejectedError indicates that a vertex cannot be executed on top of the committed
// ledger state. This is an expected race between consensus and ledger commits.
type PrepareRejectedError struct {
	Reason string
}

func (e PrepareRejectedError) Error() string {
	return fmt.Sprintf("vertex cannot be prepared: %s", e.Reason)
}

// IsPrepareRejectedError returns whether an error is PrepareRejectedError
func IsPrepareRejectedError(err error) bool {
	var e PrepareRejectedError
	return errors.As(err, &e)
}
