// Package operator builds full-system unitary operators from catalog gates.
//
// A gate acting on one qubit of an n-qubit system becomes a dense 2^n x 2^n
// matrix: the gate's 2x2 unitary at the target position and identity at
// every other position, combined by repeated Kronecker product in
// qubit-index order. Qubit 0 is the leftmost factor, so qubit 0 occupies the
// most significant bit of a basis-state index.
//
// The controlled-NOT is built from the projector decomposition
//
//	CX = embed(|0><0| @ control, I @ target) + embed(|1><1| @ control, X @ target)
//
// which is exact because the two projectors are orthogonal.
//
// Construction cost is O(4^n) per gate and is accepted as a
// simplicity-over-scalability tradeoff for small educational circuits.
package operator

import (
	"fmt"
	"sync"

	"github.com/olonok69/quantum-computing/internal/gate"
)

// Projectors onto the single-qubit basis states.
var (
	proj0 = Matrix{Dim: 2, Data: []complex128{1, 0, 0, 0}} // |0><0|
	proj1 = Matrix{Dim: 2, Data: []complex128{0, 0, 0, 1}} // |1><1|
)

// Builder constructs full-system operators for gate instructions.
//
// Builders are safe for concurrent use. The built-in cache memoizes
// operators per (symbol, targets, qubits) triple; caching is purely an
// optimization and never affects results. Cached matrices are shared, so
// callers must treat returned matrices as read-only.
type Builder struct {
	mu    sync.RWMutex
	cache map[cacheKey]Matrix
}

type cacheKey struct {
	sym     gate.Symbol
	control int
	target  int
	qubits  int
}

// NewBuilder returns a Builder with caching enabled.
func NewBuilder() *Builder {
	return &Builder{cache: make(map[cacheKey]Matrix)}
}

// Build constructs the 2^n x 2^n operator for the given gate and targets.
//
// Single-qubit gates take exactly one target; CX takes [control, target].
// Validation is eager: wrong arity fails with MALFORMED_PROGRAM, an index
// outside [0, n-1] with INVALID_QUBIT_INDEX, and CX with control == target
// with DEGENERATE_CONTROL_TARGET. The output is always unitary.
func (b *Builder) Build(qubits int, sym gate.Symbol, targets []int) (Matrix, error) {
	if qubits < 1 {
		return Matrix{}, fmt.Errorf("operator: qubit count must be >= 1, got %d", qubits)
	}
	if len(targets) != sym.Arity() {
		return Matrix{}, &BuildError{
			Code:    ErrCodeMalformedProgram,
			Message: fmt.Sprintf("gate %s takes %d target(s), got %d", sym, sym.Arity(), len(targets)),
			Gate:    sym.String(),
			Targets: targets,
			Qubits:  qubits,
		}
	}
	for _, q := range targets {
		if q < 0 || q >= qubits {
			return Matrix{}, &BuildError{
				Code:    ErrCodeInvalidQubitIndex,
				Message: fmt.Sprintf("qubit index %d outside [0, %d]", q, qubits-1),
				Gate:    sym.String(),
				Targets: targets,
				Qubits:  qubits,
			}
		}
	}

	key := cacheKey{sym: sym, qubits: qubits, target: targets[0], control: -1}
	if sym.Controlled() {
		if targets[0] == targets[1] {
			return Matrix{}, &BuildError{
				Code:    ErrCodeDegenerateControlTarget,
				Message: fmt.Sprintf("control and target are both qubit %d", targets[0]),
				Gate:    sym.String(),
				Targets: targets,
				Qubits:  qubits,
			}
		}
		key.control = targets[0]
		key.target = targets[1]
	}

	b.mu.RLock()
	if m, ok := b.cache[key]; ok {
		b.mu.RUnlock()
		return m, nil
	}
	b.mu.RUnlock()

	var m Matrix
	if sym.Controlled() {
		m = controlled(qubits, targets[0], targets[1])
	} else {
		u, _ := sym.Unitary()
		m = single(qubits, fromUnitary(u), targets[0])
	}

	b.mu.Lock()
	b.cache[key] = m
	b.mu.Unlock()
	return m, nil
}

// single embeds a 2x2 gate at the target position of an n-qubit system:
// the gate at target, identity elsewhere, combined left to right in
// qubit-index order.
func single(qubits int, g Matrix, target int) Matrix {
	id := Identity(2)

	op := id
	if target == 0 {
		op = g
	}
	for q := 1; q < qubits; q++ {
		if q == target {
			op = op.Kron(g)
		} else {
			op = op.Kron(id)
		}
	}
	return op
}

// controlled builds the CX operator from its projector decomposition.
//
// Branch one embeds |0><0| at the control with identity everywhere else:
// when the control is |0> the target is untouched. Branch two embeds
// |1><1| at the control and X at the target. The branches sum to the
// conditional unitary because the projectors are orthogonal.
func controlled(qubits, control, target int) Matrix {
	id := Identity(2)
	xu, _ := gate.X.Unitary()
	x := fromUnitary(xu)

	branch0 := id
	if control == 0 {
		branch0 = proj0
	}
	for q := 1; q < qubits; q++ {
		if q == control {
			branch0 = branch0.Kron(proj0)
		} else {
			branch0 = branch0.Kron(id)
		}
	}

	branch1 := id
	if control == 0 {
		branch1 = proj1
	} else if target == 0 {
		branch1 = x
	}
	for q := 1; q < qubits; q++ {
		switch q {
		case control:
			branch1 = branch1.Kron(proj1)
		case target:
			branch1 = branch1.Kron(x)
		default:
			branch1 = branch1.Kron(id)
		}
	}

	return branch0.Add(branch1)
}
