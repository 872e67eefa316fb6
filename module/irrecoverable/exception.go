package irrecoverable

import (
	"errors"
	"fmt"
)

// exception represents an unexpected error. It wraps an error, which could be a sentinel error.
// The wrapped error stays reachable through errors.Is and errors.As for diagnostics, so callers
// branching on sentinel errors must check IsException first.
type exception struct {
	err error
}

func (e exception) Error() string {
	return e.err.Error()
}

func (e exception) Unwrap() error {
	return e.err
}

// NewException wraps the input error as an exception. Upper levels of the stack detect it with
// IsException and treat it as an unexpected error, even if it wraps a sentinel error.
func NewException(err error) error {
	return exception{err: err}
}

// NewExceptionf is NewException with the ability to format the message.
func NewExceptionf(msg string, args ...interface{}) error {
	return NewException(fmt.Errorf(msg, args...))
}

// IsException returns whether the error chain contains an exception.
func IsException(err error) bool {
	var e exception
	return errors.As(err, &e)
}
