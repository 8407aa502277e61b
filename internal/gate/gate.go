// Package gate defines the closed catalog of quantum gates supported by the
// simulator.
//
// The catalog covers the seven standard single-qubit unitaries (I, H, X, Y,
// Z, S, T) and the two-qubit controlled-NOT. Gate identity is a closed
// tagged variant (Symbol), not a string: unknown names are rejected at the
// parsing boundary by Parse, so every Symbol value flowing through the
// engine is known-valid and can be matched exhaustively.
//
// The catalog itself is package-level immutable data. There is no mutable
// state and nothing to tear down.
package gate

import (
	"math"
	"math/cmplx"
)

// Symbol identifies a gate in the catalog.
type Symbol int

const (
	// I is the identity gate.
	I Symbol = iota

	// H is the Hadamard gate, mapping |0> to (|0>+|1>)/sqrt(2).
	H

	// X is the Pauli-X (bit flip) gate.
	X

	// Y is the Pauli-Y gate.
	Y

	// Z is the Pauli-Z (phase flip) gate.
	Z

	// S is the phase gate diag(1, e^{i*pi/2}).
	S

	// T is the pi/8 gate diag(1, e^{i*pi/4}).
	T

	// CX is the two-qubit controlled-NOT gate.
	CX
)

// Unitary2 is a 2x2 complex matrix in row-major order.
type Unitary2 [2][2]complex128

// invSqrt2 is the Hadamard normalization factor 1/sqrt(2).
var invSqrt2 = complex(1/math.Sqrt2, 0)

// unitaries holds the fixed 2x2 matrices for the single-qubit symbols,
// indexed by Symbol. CX has no entry; it is built from projectors by the
// operator package.
var unitaries = [...]Unitary2{
	I: {{1, 0}, {0, 1}},
	H: {{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}},
	X: {{0, 1}, {1, 0}},
	Y: {{0, -1i}, {1i, 0}},
	Z: {{1, 0}, {0, -1}},
	S: {{1, 0}, {0, 1i}},
	T: {{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}},
}

// names maps each Symbol to its external lowercase name, the same tokens the
// circuit-string format uses.
var names = [...]string{
	I:  "i",
	H:  "h",
	X:  "x",
	Y:  "y",
	Z:  "z",
	S:  "s",
	T:  "t",
	CX: "cx",
}

// String returns the lowercase catalog name of the symbol.
func (s Symbol) String() string {
	if s < 0 || int(s) >= len(names) {
		return "unknown"
	}
	return names[s]
}

// Controlled reports whether the symbol is the two-qubit controlled gate.
func (s Symbol) Controlled() bool {
	return s == CX
}

// Arity returns the number of target indices an instruction using this
// symbol must carry: 1 for single-qubit gates, 2 ([control, target]) for CX.
func (s Symbol) Arity() int {
	if s.Controlled() {
		return 2
	}
	return 1
}

// Unitary returns the 2x2 matrix for a single-qubit symbol.
// ok is false for CX, which has no single 2x2 representation.
func (s Symbol) Unitary() (Unitary2, bool) {
	if s < 0 || s.Controlled() || int(s) >= len(unitaries) {
		return Unitary2{}, false
	}
	return unitaries[s], true
}

// Symbols returns every symbol in the catalog in declaration order.
// Useful for exhaustive property tests over the whole catalog.
func Symbols() []Symbol {
	return []Symbol{I, H, X, Y, Z, S, T, CX}
}

// Parse resolves an external gate name to its Symbol.
// Unrecognized names fail with an UnknownGateError; this is the single point
// where untrusted gate names enter the closed variant space.
func Parse(name string) (Symbol, error) {
	for sym, n := range names {
		if name == n {
			return Symbol(sym), nil
		}
	}
	return 0, &UnknownGateError{Name: name}
}
