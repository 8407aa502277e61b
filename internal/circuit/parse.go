package circuit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/olonok69/quantum-computing/internal/gate"
)

// ParseError reports a malformed instruction in a circuit string.
type ParseError struct {
	// Instruction is the offending instruction text as received.
	Instruction string

	// Position is the zero-based instruction index within the circuit string.
	Position int

	// Message is a human-readable description.
	Message string

	// Err is the underlying error, if any (e.g. an UnknownGateError).
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("instruction %d (%q): %s: %v", e.Position, e.Instruction, e.Message, e.Err)
	}
	return fmt.Sprintf("instruction %d (%q): %s", e.Position, e.Instruction, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if the error is a circuit parse error.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// ParseString parses the compact circuit-string format into a Program.
//
// Format: comma-separated instructions, each "gate:target" or
// "gate:control-target" for cx. Whitespace around instructions is ignored;
// an empty string yields an empty program.
//
//	"h:0,cx:0-1"       Hadamard on qubit 0, then CNOT control=0 target=1
//	"h:0, x:1, t:0"    three single-qubit gates
//
// Unknown gate names, missing separators, non-integer targets, and wrong
// target arity all fail with a ParseError identifying the instruction.
// Target range checks against the system size happen later, at operator
// construction.
func ParseString(s string) (Program, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Program{}, nil
	}

	var prog Program
	for pos, raw := range strings.Split(s, ",") {
		text := strings.TrimSpace(raw)

		name, targetsText, ok := strings.Cut(text, ":")
		if !ok {
			return nil, &ParseError{
				Instruction: text,
				Position:    pos,
				Message:     "expected gate:target(s)",
			}
		}

		sym, err := gate.Parse(strings.TrimSpace(name))
		if err != nil {
			return nil, &ParseError{
				Instruction: text,
				Position:    pos,
				Message:     "unknown gate",
				Err:         err,
			}
		}

		targets, err := parseTargets(targetsText)
		if err != nil {
			return nil, &ParseError{
				Instruction: text,
				Position:    pos,
				Message:     "bad target list",
				Err:         err,
			}
		}
		if len(targets) != sym.Arity() {
			return nil, &ParseError{
				Instruction: text,
				Position:    pos,
				Message:     fmt.Sprintf("gate %s takes %d target(s), got %d", sym, sym.Arity(), len(targets)),
			}
		}

		prog = append(prog, Instruction{Gate: sym, Targets: targets})
	}
	return prog, nil
}

// parseTargets parses a dash-separated list of qubit indices.
func parseTargets(s string) ([]int, error) {
	var targets []int
	for _, part := range strings.Split(s, "-") {
		part = strings.TrimSpace(part)
		q, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid qubit index %q", part)
		}
		targets = append(targets, q)
	}
	return targets, nil
}
