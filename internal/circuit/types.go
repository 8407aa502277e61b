// Package circuit defines gate programs and the boundary parsers that
// produce them.
//
// A Program is the data-only instruction sequence the simulation engine
// consumes. Programs enter the system through two boundaries: the compact
// circuit-string format ("h:0,cx:0-1") and YAML circuit documents validated
// against an embedded CUE schema. Both boundaries reject unknown gates and
// malformed instructions eagerly, before anything reaches the engine.
package circuit

import (
	"fmt"
	"strings"

	"github.com/olonok69/quantum-computing/internal/gate"
)

// Instruction is a single gate application.
type Instruction struct {
	// Gate is the catalog symbol.
	Gate gate.Symbol

	// Targets holds the qubit indices the gate acts on:
	// one index for single-qubit gates, [control, target] for cx.
	Targets []int
}

// String renders the instruction in circuit-string form, e.g. "h:0" or
// "cx:0-1".
func (in Instruction) String() string {
	parts := make([]string, len(in.Targets))
	for i, q := range in.Targets {
		parts[i] = fmt.Sprintf("%d", q)
	}
	return fmt.Sprintf("%s:%s", in.Gate, strings.Join(parts, "-"))
}

// Program is an ordered gate-instruction sequence. Order matters: quantum
// evolution is non-commutative.
type Program []Instruction

// String renders the program in circuit-string form.
func (p Program) String() string {
	parts := make([]string, len(p))
	for i, in := range p {
		parts[i] = in.String()
	}
	return strings.Join(parts, ",")
}
