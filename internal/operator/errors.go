package operator

import (
	"errors"
	"fmt"
)

// BuildError represents an input error detected while constructing a
// full-system operator.
//
// Build errors include:
//   - Invalid qubit index: target or control outside [0, n-1]
//   - Degenerate control/target: CX with control == target
//   - Malformed program: wrong target arity for the gate
//
// All are detected eagerly, before any state evolution, and never retried.
type BuildError struct {
	// Code identifies the error category.
	Code BuildErrorCode

	// Message is a human-readable description.
	Message string

	// Gate names the offending gate symbol.
	Gate string

	// Targets holds the offending target indices as given.
	Targets []int

	// Qubits is the total qubit count of the system.
	Qubits int
}

// BuildErrorCode categorizes operator construction errors.
type BuildErrorCode string

const (
	// ErrCodeInvalidQubitIndex indicates a target outside [0, n-1].
	ErrCodeInvalidQubitIndex BuildErrorCode = "INVALID_QUBIT_INDEX"

	// ErrCodeDegenerateControlTarget indicates CX with control == target.
	ErrCodeDegenerateControlTarget BuildErrorCode = "DEGENERATE_CONTROL_TARGET"

	// ErrCodeMalformedProgram indicates wrong target arity for a gate.
	ErrCodeMalformedProgram BuildErrorCode = "MALFORMED_PROGRAM"
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s (gate=%s, targets=%v, qubits=%d)",
		e.Code, e.Message, e.Gate, e.Targets, e.Qubits)
}

// IsInvalidQubitIndex returns true if the error is an out-of-range target
// index error. Uses errors.As to handle wrapped errors.
func IsInvalidQubitIndex(err error) bool {
	var be *BuildError
	return errors.As(err, &be) && be.Code == ErrCodeInvalidQubitIndex
}

// IsDegenerateControlTarget returns true if the error is a CX
// control==target error.
func IsDegenerateControlTarget(err error) bool {
	var be *BuildError
	return errors.As(err, &be) && be.Code == ErrCodeDegenerateControlTarget
}

// IsMalformedProgram returns true if the error is a target-arity error.
func IsMalformedProgram(err error) bool {
	var be *BuildError
	return errors.As(err, &be) && be.Code == ErrCodeMalformedProgram
}
