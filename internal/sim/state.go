// Package sim is the simulation core: state-vector initialization,
// sequential circuit evolution, and Born-rule measurement sampling.
//
// A run is single-threaded and synchronous with no I/O: ground state in,
// final state out, then repeated independent sampling against that fixed
// final state. Measurement never collapses the retained state; each shot
// models fresh re-preparation and measurement.
package sim

import (
	"fmt"
	"math/cmplx"
)

// State is a full-system wavefunction over n qubits.
//
// Amplitudes has length 2^n; the amplitude at index i belongs to the basis
// state whose binary expansion equals i, with qubit 0 at the most
// significant bit (qubit 0 is the leftmost Kronecker factor). The squared
// magnitudes sum to 1 up to floating drift.
type State struct {
	// Amplitudes holds the complex amplitude per basis state.
	Amplitudes []complex128

	// Qubits is the system size n.
	Qubits int
}

// GroundState returns the |00...0> state for n qubits: amplitude 1 at
// index 0, 0 elsewhere. n must be at least 1.
func GroundState(n int) (*State, error) {
	if n < 1 {
		return nil, fmt.Errorf("sim: qubit count must be >= 1, got %d", n)
	}
	amps := make([]complex128, 1<<n)
	amps[0] = 1
	return &State{Amplitudes: amps, Qubits: n}, nil
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	amps := make([]complex128, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &State{Amplitudes: amps, Qubits: s.Qubits}
}

// Probabilities returns the Born-rule distribution P(k) = |amplitude_k|^2
// together with its sum. Callers decide whether the sum's drift from 1
// warrants renormalization.
func (s *State) Probabilities() ([]float64, float64) {
	probs := make([]float64, len(s.Amplitudes))
	total := 0.0
	for i, amp := range s.Amplitudes {
		p := real(amp)*real(amp) + imag(amp)*imag(amp)
		probs[i] = p
		total += p
	}
	return probs, total
}

// Norm returns the squared L2 norm of the state vector, 1 for a properly
// normalized state.
func (s *State) Norm() float64 {
	_, total := s.Probabilities()
	return total
}

// Phase returns the phase angle of the amplitude at basis index k.
func (s *State) Phase(k int) float64 {
	return cmplx.Phase(s.Amplitudes[k])
}
