package sim

import (
	"fmt"

	"github.com/olonok69/quantum-computing/internal/circuit"
	"github.com/olonok69/quantum-computing/internal/operator"
)

// Evolver applies gate programs to state vectors.
//
// Evolution is functional: every operator application produces a new
// vector and the input state is never mutated, so one initial state can be
// reused across alternative programs. Evolvers share an operator Builder,
// so recurring (gate, targets, n) triples hit its cache across runs.
type Evolver struct {
	builder *operator.Builder
}

// NewEvolver returns an Evolver with a fresh operator builder.
func NewEvolver() *Evolver {
	return &Evolver{builder: operator.NewBuilder()}
}

// Run applies each instruction's operator to the state in program order and
// returns the final state.
//
// The first malformed instruction aborts the run with the failing
// instruction identified; no partial state is returned. The initial state
// is left untouched either way.
func (e *Evolver) Run(initial *State, prog circuit.Program) (*State, error) {
	amps := initial.Amplitudes
	for i, in := range prog {
		op, err := e.builder.Build(initial.Qubits, in.Gate, in.Targets)
		if err != nil {
			return nil, fmt.Errorf("instruction %d (%s): %w", i, in, err)
		}
		amps = op.MulVec(amps)
	}

	final := &State{Amplitudes: amps, Qubits: initial.Qubits}
	if len(prog) == 0 {
		// Even an empty program yields an independent copy.
		final = initial.Clone()
	}
	return final, nil
}
