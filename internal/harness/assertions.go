package harness

import (
	"fmt"
	"math"

	"github.com/olonok69/quantum-computing/internal/sim"
)

// basisIndex converts a little-endian bit string to its basis-state
// index: character i of the string is bit i of the index.
func basisIndex(basis string, qubits int) (int, error) {
	if len(basis) != qubits {
		return 0, fmt.Errorf("basis %q has %d bits, state has %d qubits", basis, len(basis), qubits)
	}
	index := 0
	for i := 0; i < len(basis); i++ {
		switch basis[i] {
		case '0':
		case '1':
			index |= 1 << i
		default:
			return 0, fmt.Errorf("basis %q: invalid character %q", basis, basis[i])
		}
	}
	return index, nil
}

// evaluateAssertion checks one assertion and records any failure on the
// result.
func evaluateAssertion(r *Result, index int, a *Assertion, final *sim.State, counts sim.Counts) {
	tol := a.Tolerance
	if tol == 0 {
		tol = defaultTolerance
	}

	switch a.Type {
	case AssertProbability:
		k, err := basisIndex(a.Basis, final.Qubits)
		if err != nil {
			r.AddError("assertions[%d]: %v", index, err)
			return
		}
		amp := final.Amplitudes[k]
		got := real(amp)*real(amp) + imag(amp)*imag(amp)
		if math.Abs(got-a.Value) > tol {
			r.AddError("assertions[%d]: probability of %s is %.12f, want %.12f",
				index, a.Basis, got, a.Value)
		}

	case AssertAmplitude:
		k, err := basisIndex(a.Basis, final.Qubits)
		if err != nil {
			r.AddError("assertions[%d]: %v", index, err)
			return
		}
		amp := final.Amplitudes[k]
		if math.Abs(real(amp)-a.Real) > tol || math.Abs(imag(amp)-a.Imag) > tol {
			r.AddError("assertions[%d]: amplitude of %s is %.12f%+.12fi, want %.12f%+.12fi",
				index, a.Basis, real(amp), imag(amp), a.Real, a.Imag)
		}

	case AssertOutcomes:
		allowed := make(map[string]bool, len(a.Allowed))
		for _, outcome := range a.Allowed {
			allowed[outcome] = true
		}
		for outcome, n := range counts {
			if !allowed[outcome] {
				r.AddError("assertions[%d]: outcome %s sampled %d times but is not allowed",
					index, outcome, n)
			}
		}

	case AssertNorm:
		if got := final.Norm(); math.Abs(got-a.Value) > tol {
			r.AddError("assertions[%d]: squared norm is %.12f, want %.12f", index, got, a.Value)
		}

	default:
		// validateScenario rejects unknown types before execution.
		r.AddError("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
}
