package gate

import (
	"errors"
	"fmt"
)

// UnknownGateError reports a gate name that is not in the catalog.
// Detected eagerly at the parsing boundary, never retried.
type UnknownGateError struct {
	// Name is the rejected gate name as received.
	Name string
}

// Error implements the error interface.
func (e *UnknownGateError) Error() string {
	return fmt.Sprintf("unknown gate %q (supported: i, h, x, y, z, s, t, cx)", e.Name)
}

// IsUnknownGate returns true if the error is an unknown-gate error.
// Uses errors.As to handle wrapped errors.
func IsUnknownGate(err error) bool {
	var ge *UnknownGateError
	return errors.As(err, &ge)
}
