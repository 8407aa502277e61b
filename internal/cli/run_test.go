package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olonok69/quantum-computing/internal/sim"
	"github.com/olonok69/quantum-computing/internal/store"
	"github.com/olonok69/quantum-computing/internal/testutil"
)

// execRun executes the run command with the given args and returns its
// output buffer and error.
func execRun(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

// decodeData decodes the Data payload of a JSON CLI response.
func decodeData(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data should be an object")
	return data
}

func countsOf(t *testing.T, data map[string]any) map[string]int {
	t.Helper()
	raw, ok := data["counts"].(map[string]any)
	require.True(t, ok, "counts should be an object")
	counts := make(map[string]int, len(raw))
	for k, v := range raw {
		counts[k] = int(v.(float64))
	}
	return counts
}

func TestRun_TextOutput(t *testing.T) {
	buf, err := execRun(t, "text",
		"--qubits", "1", "--circuit", "h:0", "--shots", "100", "--seed", "7")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "circuit: h:0  (1 qubits, seed 7)")
	assert.Contains(t, out, "counts (100 shots):")
}

func TestRun_BellJSON(t *testing.T) {
	buf, err := execRun(t, "json",
		"--qubits", "2", "--circuit", "h:0,cx:0-1", "--shots", "200", "--seed", "3")
	require.NoError(t, err)

	data := decodeData(t, buf)
	assert.Equal(t, float64(2), data["qubits"])
	assert.Equal(t, float64(200), data["shots"])
	assert.Equal(t, float64(3), data["seed"])

	counts := countsOf(t, data)
	total := 0
	for outcome, n := range counts {
		assert.Contains(t, []string{"00", "11"}, outcome)
		total += n
	}
	assert.Equal(t, 200, total, "tally total equals shots exactly")
}

func TestRun_SeededIsReproducible(t *testing.T) {
	a, err := execRun(t, "json",
		"--qubits", "2", "--circuit", "h:0,cx:0-1", "--shots", "100", "--seed", "42")
	require.NoError(t, err)
	b, err := execRun(t, "json",
		"--qubits", "2", "--circuit", "h:0,cx:0-1", "--shots", "100", "--seed", "42")
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestRun_ParallelWorkers(t *testing.T) {
	buf, err := execRun(t, "json",
		"--qubits", "2", "--circuit", "h:0,cx:0-1",
		"--shots", "400", "--seed", "5", "--workers", "4")
	require.NoError(t, err)

	data := decodeData(t, buf)
	assert.Equal(t, float64(4), data["workers"])
	counts := countsOf(t, data)
	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, 400, total)
}

func TestRun_FromDocument(t *testing.T) {
	buf, err := execRun(t, "json", "--file", filepath.Join("testdata", "bell.yaml"))
	require.NoError(t, err)

	data := decodeData(t, buf)
	assert.Equal(t, "bell", data["name"])
	assert.Equal(t, float64(2), data["qubits"])
	assert.Equal(t, float64(42), data["seed"], "document seed applies")
	assert.Equal(t, float64(1000), data["shots"], "document shots apply")
}

func TestRun_FlagsOverrideDocument(t *testing.T) {
	buf, err := execRun(t, "json",
		"--file", filepath.Join("testdata", "bell.yaml"),
		"--shots", "50", "--seed", "9")
	require.NoError(t, err)

	data := decodeData(t, buf)
	assert.Equal(t, float64(50), data["shots"])
	assert.Equal(t, float64(9), data["seed"])
}

func TestRun_MissingCircuit(t *testing.T) {
	_, err := execRun(t, "text", "--qubits", "2")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_UnknownGate(t *testing.T) {
	buf, err := execRun(t, "text", "--qubits", "1", "--circuit", "q:0")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "UNKNOWN_GATE")
}

func TestRun_InvalidQubitIndex(t *testing.T) {
	buf, err := execRun(t, "text", "--qubits", "2", "--circuit", "x:5", "--seed", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "INVALID_QUBIT_INDEX")
}

func TestRun_DegenerateCX(t *testing.T) {
	buf, err := execRun(t, "text", "--qubits", "2", "--circuit", "cx:1-1", "--seed", "1")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "DEGENERATE_CONTROL_TARGET")
}

func TestRun_RecordsToDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	buf, err := execRun(t, "json",
		"--qubits", "2", "--circuit", "h:0,cx:0-1",
		"--shots", "100", "--seed", "42", "--db", dbPath)
	require.NoError(t, err)

	data := decodeData(t, buf)
	token, ok := data["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.GetRun(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "h:0,cx:0-1", run.Circuit)
	assert.Equal(t, 2, run.Qubits)
	assert.Equal(t, 100, run.Shots)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, 1, run.Workers)
	assert.NotEmpty(t, run.CountsJSON)
}

func TestRecordRun_InjectedTokenAndClock(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		Database:    dbPath,
		Tokens:      store.NewFixedGenerator("run-a", "run-b"),
		Now:         testutil.NewSteppingClock(start, time.Second).Now,
	}
	result := RunResult{
		Qubits:  2,
		Shots:   4,
		Seed:    1,
		Circuit: "h:0,cx:0-1",
		Counts:  sim.Counts{"00": 1, "11": 3},
	}

	tokenA, err := recordRun(opts, result)
	require.NoError(t, err)
	tokenB, err := recordRun(opts, result)
	require.NoError(t, err)
	assert.Equal(t, "run-a", tokenA)
	assert.Equal(t, "run-b", tokenB)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].CreatedAt.Equal(start))
	assert.True(t, runs[1].CreatedAt.Equal(start.Add(time.Second)))
	assert.Equal(t, `{"00":1,"11":3}`, runs[0].CountsJSON)
}
