package cli

import (
	"errors"

	"github.com/olonok69/quantum-computing/internal/circuit"
	"github.com/olonok69/quantum-computing/internal/gate"
	"github.com/olonok69/quantum-computing/internal/operator"
)

// Error taxonomy codes surfaced by the CLI. Operator build errors carry
// their own codes; these cover the remaining boundaries.
const (
	ErrCodeUnknownGate      = "UNKNOWN_GATE"
	ErrCodeMalformedCircuit = "MALFORMED_CIRCUIT"
	ErrCodeSchemaViolation  = "SCHEMA_VIOLATION"
	ErrCodeGeneric          = "GENERIC"
)

// errorCode maps an error to its taxonomy code for CLI responses.
func errorCode(err error) string {
	var be *operator.BuildError
	if errors.As(err, &be) {
		return string(be.Code)
	}
	if gate.IsUnknownGate(err) {
		return ErrCodeUnknownGate
	}
	if circuit.IsParseError(err) {
		return ErrCodeMalformedCircuit
	}
	var se *circuit.SchemaError
	if errors.As(err, &se) {
		return ErrCodeSchemaViolation
	}
	return ErrCodeGeneric
}
