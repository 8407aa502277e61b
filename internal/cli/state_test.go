package cli

import (
	"bytes"
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execState(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewStateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func decodeState(t *testing.T, buf *bytes.Buffer) StateResult {
	t.Helper()
	var resp struct {
		Status string      `json:"status"`
		Data   StateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestState_BellAmplitudes(t *testing.T) {
	buf, err := execState(t, "json", "--qubits", "2", "--circuit", "h:0,cx:0-1")
	require.NoError(t, err)

	result := decodeState(t, buf)
	require.Len(t, result.Amplitudes, 4)

	invSqrt2 := 1 / math.Sqrt(2)
	assert.InDelta(t, invSqrt2, result.Amplitudes[0].Real, 1e-12)
	assert.InDelta(t, 0, result.Amplitudes[1].Real, 1e-12)
	assert.InDelta(t, 0, result.Amplitudes[2].Real, 1e-12)
	assert.InDelta(t, invSqrt2, result.Amplitudes[3].Real, 1e-12)

	assert.Equal(t, "00", result.Amplitudes[0].Basis)
	assert.Equal(t, "11", result.Amplitudes[3].Basis)

	assert.InDelta(t, 0.5, result.Amplitudes[0].Probability, 1e-12)
	assert.InDelta(t, 0.5, result.Amplitudes[3].Probability, 1e-12)
}

func TestState_SGatePhase(t *testing.T) {
	buf, err := execState(t, "json", "--qubits", "1", "--circuit", "h:0,s:0")
	require.NoError(t, err)

	result := decodeState(t, buf)
	require.Len(t, result.Amplitudes, 2)

	// h then s leaves (|0> + i|1>)/sqrt(2): the |1> amplitude sits at
	// phase pi/2 with zero real part.
	invSqrt2 := 1 / math.Sqrt(2)
	assert.InDelta(t, invSqrt2, result.Amplitudes[0].Real, 1e-12)
	assert.InDelta(t, 0, result.Amplitudes[1].Real, 1e-12)
	assert.InDelta(t, invSqrt2, result.Amplitudes[1].Imag, 1e-12)
	assert.InDelta(t, math.Pi/2, result.Amplitudes[1].Phase, 1e-12)
}

func TestState_TextOutput(t *testing.T) {
	buf, err := execState(t, "text", "--qubits", "1", "--circuit", "x:0")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "circuit: x:0  (1 qubits)")
	assert.Contains(t, out, "basis")
	assert.Contains(t, out, "probability")
	assert.Contains(t, out, "1  +1.0000+0.0000i")
}

func TestState_FromDocument(t *testing.T) {
	buf, err := execState(t, "json", "--file", filepath.Join("testdata", "bell.yaml"))
	require.NoError(t, err)

	result := decodeState(t, buf)
	assert.Equal(t, 2, result.Qubits)
	assert.Equal(t, "h:0,cx:0-1", result.Circuit)
	assert.Len(t, result.Amplitudes, 4)
}

func TestState_MissingCircuit(t *testing.T) {
	_, err := execState(t, "text", "--qubits", "2")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestState_EvolutionFailure(t *testing.T) {
	buf, err := execState(t, "text", "--qubits", "2", "--circuit", "cx:0-9")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "INVALID_QUBIT_INDEX")
}
