// Package errs defines the error taxonomy shared by the scheduler packages.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a referenced session, item, or learner record
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvariantViolation indicates a record handed to a pure update
	// function breaks one of its invariants. This is a caller bug or a data
	// integrity problem, never a steady-state condition.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrInvalidInput indicates a malformed request (empty ids, negative
	// durations, unparsable dates).
	ErrInvalidInput = errors.New("invalid input")
)

// Invariant returns an error wrapping ErrInvariantViolation.
func Invariant(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// Invalid returns an error wrapping ErrInvalidInput.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// PersistenceError indicates the atomic commit of a unit of work failed.
// Nothing from the unit is observable; callers may retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("persistence failure (%s): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("persistence failure (%s)", e.Op)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Retryable reports whether the failed operation may be retried as-is.
func (e *PersistenceError) Retryable() bool { return true }

// IsPersistence reports whether err is or wraps a *PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
