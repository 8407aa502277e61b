package harness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olonok69/quantum-computing/internal/sim"
)

func TestBasisIndex(t *testing.T) {
	cases := []struct {
		basis  string
		qubits int
		index  int
	}{
		{"0", 1, 0},
		{"1", 1, 1},
		{"00", 2, 0},
		{"10", 2, 1},
		{"01", 2, 2},
		{"11", 2, 3},
		{"101", 3, 5},
		{"111", 3, 7},
	}
	for _, tc := range cases {
		index, err := basisIndex(tc.basis, tc.qubits)
		require.NoError(t, err, "basis %s", tc.basis)
		assert.Equal(t, tc.index, index, "basis %s", tc.basis)
	}
}

func TestBasisIndex_Invalid(t *testing.T) {
	_, err := basisIndex("01", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has 2 bits")

	_, err = basisIndex("0x", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid character")
}

// bellState builds (|00> + |11>)/sqrt(2) directly.
func bellState(t *testing.T) *sim.State {
	t.Helper()
	invSqrt2 := complex(1/math.Sqrt(2), 0)
	return &sim.State{
		Amplitudes: []complex128{invSqrt2, 0, 0, invSqrt2},
		Qubits:     2,
	}
}

func TestEvaluateAssertion_Probability(t *testing.T) {
	final := bellState(t)

	r := NewResult()
	evaluateAssertion(r, 0, &Assertion{Type: AssertProbability, Basis: "00", Value: 0.5}, final, nil)
	assert.True(t, r.Pass)

	r = NewResult()
	evaluateAssertion(r, 0, &Assertion{Type: AssertProbability, Basis: "10", Value: 0.5}, final, nil)
	require.False(t, r.Pass)
	assert.Contains(t, r.Errors[0], "probability of 10")
}

func TestEvaluateAssertion_Amplitude(t *testing.T) {
	final := bellState(t)

	r := NewResult()
	evaluateAssertion(r, 0, &Assertion{
		Type: AssertAmplitude, Basis: "11", Real: 1 / math.Sqrt(2),
	}, final, nil)
	assert.True(t, r.Pass)

	r = NewResult()
	evaluateAssertion(r, 0, &Assertion{
		Type: AssertAmplitude, Basis: "11", Real: 0, Imag: 1 / math.Sqrt(2),
	}, final, nil)
	assert.False(t, r.Pass)
}

func TestEvaluateAssertion_Tolerance(t *testing.T) {
	final := bellState(t)

	// A loose tolerance accepts a value the default tolerance rejects.
	loose := &Assertion{Type: AssertProbability, Basis: "00", Value: 0.49, Tolerance: 0.05}
	r := NewResult()
	evaluateAssertion(r, 0, loose, final, nil)
	assert.True(t, r.Pass)

	tight := &Assertion{Type: AssertProbability, Basis: "00", Value: 0.49}
	r = NewResult()
	evaluateAssertion(r, 0, tight, final, nil)
	assert.False(t, r.Pass)
}

func TestEvaluateAssertion_Outcomes(t *testing.T) {
	counts := sim.Counts{"00": 40, "11": 60}

	r := NewResult()
	evaluateAssertion(r, 0, &Assertion{Type: AssertOutcomes, Allowed: []string{"00", "11"}}, bellState(t), counts)
	assert.True(t, r.Pass)

	r = NewResult()
	evaluateAssertion(r, 0, &Assertion{Type: AssertOutcomes, Allowed: []string{"00"}}, bellState(t), counts)
	require.False(t, r.Pass)
	assert.Contains(t, r.Errors[0], "outcome 11")
}

func TestEvaluateAssertion_Norm(t *testing.T) {
	r := NewResult()
	evaluateAssertion(r, 0, &Assertion{Type: AssertNorm, Value: 1}, bellState(t), nil)
	assert.True(t, r.Pass)

	unnormalized := &sim.State{Amplitudes: []complex128{0.5, 0}, Qubits: 1}
	r = NewResult()
	evaluateAssertion(r, 0, &Assertion{Type: AssertNorm, Value: 1}, unnormalized, nil)
	require.False(t, r.Pass)
	assert.Contains(t, r.Errors[0], "squared norm")
}

func TestEvaluateAssertion_BadBasisRecordsError(t *testing.T) {
	r := NewResult()
	evaluateAssertion(r, 3, &Assertion{Type: AssertProbability, Basis: "000", Value: 0.5}, bellState(t), nil)
	require.False(t, r.Pass)
	assert.Contains(t, r.Errors[0], "assertions[3]")
}
