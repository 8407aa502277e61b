package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroundState(t *testing.T) {
	for n := 1; n <= 6; n++ {
		s, err := GroundState(n)
		require.NoError(t, err)
		require.Len(t, s.Amplitudes, 1<<n)
		assert.Equal(t, n, s.Qubits)

		assert.Equal(t, complex128(1), s.Amplitudes[0])
		for i := 1; i < len(s.Amplitudes); i++ {
			assert.Equal(t, complex128(0), s.Amplitudes[i], "n=%d index=%d", n, i)
		}
		assert.InDelta(t, 1, s.Norm(), 1e-12)
	}
}

func TestGroundState_RejectsNonPositive(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := GroundState(n)
		assert.Error(t, err, "n=%d", n)
	}
}

func TestState_CloneIsIndependent(t *testing.T) {
	s, err := GroundState(2)
	require.NoError(t, err)

	c := s.Clone()
	c.Amplitudes[0] = 0
	c.Amplitudes[3] = 1

	assert.Equal(t, complex128(1), s.Amplitudes[0], "original untouched")
	assert.Equal(t, complex128(0), s.Amplitudes[3])
}

func TestState_Probabilities(t *testing.T) {
	s := &State{Qubits: 1, Amplitudes: []complex128{complex(0.6, 0), complex(0, 0.8)}}
	probs, total := s.Probabilities()

	assert.InDelta(t, 0.36, probs[0], 1e-12)
	assert.InDelta(t, 0.64, probs[1], 1e-12)
	assert.InDelta(t, 1, total, 1e-12)
}
