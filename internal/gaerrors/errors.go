// Package gaerrors defines the error kinds the genetic algorithm engine
// surfaces to its callers, per spec §7.
package gaerrors

import (
	"errors"
	"fmt"
)

// Kind tags the category of a returned error so callers can decide whether
// to retry, re-seed or relax constraints without parsing message text.
type Kind string

const (
	// InvalidConfig is returned when a GAConfig field violates its bound.
	InvalidConfig Kind = "invalid_config"
	// InvalidInput is returned for empty lectures/teachers/slots or
	// unknown cross-referenced ids.
	InvalidInput Kind = "invalid_input"
	// InvariantViolation marks an operator bug: it produced a chromosome
	// failing I1-I4. This is never a user condition.
	InvariantViolation Kind = "invariant_violation"
	// Cancelled names a cancellation requested by the progress callback.
	// The drivers do not return it; they report cancellation through
	// GAResult.Cancelled.
	Cancelled Kind = "cancelled"
	// WorkerFailure marks an island worker crash or timeout.
	WorkerFailure Kind = "worker_failure"
)

// Error wraps an underlying cause with a Kind so gaerrors.Is/As work with
// the standard errors package.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, gaerrors.New(kind, "")) match any *Error with the
// same Kind, regardless of message or cause.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an *Error wrapping cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// KindOf extracts the Kind of err if it is (or wraps) a *Error, and false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
