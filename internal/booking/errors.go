// Package booking implements the reservation and billing lifecycle
// engine: conflict detection, pricing, the two state machines and the
// orchestrator that drives every state change inside one store
// transaction.
package booking

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure so that callers can map it to a
// transport-level response without parsing reason strings.
type Kind int

const (
	// KindNotFound means a referenced reservation, billing, space or
	// user does not exist.
	KindNotFound Kind = iota + 1
	// KindConflict means the requested interval overlaps an existing
	// non-terminal reservation on the same space.
	KindConflict
	// KindInvalidState means a transition was attempted from a state
	// that forbids it.
	KindInvalidState
	// KindValidation means the input was rejected before any store
	// mutation (malformed interval, missing hourly rate, inactive space).
	KindValidation
)

// Error is a typed engine failure.  Reason carries the specific rule
// that was violated; every rejection path has its own reason string.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string { return e.Reason }

// KindOf extracts the failure kind from err, or 0 when err is not an
// engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is an engine error of the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }

func notFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Reason: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Reason: fmt.Sprintf(format, args...)}
}

func invalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Reason: fmt.Sprintf(format, args...)}
}

func validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}
