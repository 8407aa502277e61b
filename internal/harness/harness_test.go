package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	return scenario
}

func TestRun_BellScenario(t *testing.T) {
	result, err := Run(loadTestScenario(t, "bell.yaml"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "h:0,cx:0-1", result.Circuit)
	assert.Equal(t, 1000, result.Counts.Total())
	require.NotNil(t, result.Final)
	assert.Len(t, result.Final.Amplitudes, 4)
}

func TestRun_AllScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_DocumentScenario(t *testing.T) {
	result, err := Run(loadTestScenario(t, "bell_doc.yaml"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "h:0,cx:0-1", result.Circuit, "circuit comes from the document")
	assert.Equal(t, 100, result.Counts.Total())
}

func TestRun_IsDeterministic(t *testing.T) {
	scenario := loadTestScenario(t, "ghz.yaml")

	a, err := Run(scenario)
	require.NoError(t, err)
	b, err := Run(scenario)
	require.NoError(t, err)
	assert.Equal(t, a.Counts, b.Counts)
}

func TestRun_FailingAssertion(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong",
		Description: "expects weight the state does not have",
		Qubits:      1,
		Circuit:     "x:0",
		Shots:       10,
		Seed:        1,
		Assertions: []Assertion{
			{Type: AssertProbability, Basis: "0", Value: 1},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err, "assertion failures are not execution errors")
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "probability of 0")
}

func TestRun_ExecutionError(t *testing.T) {
	scenario := &Scenario{
		Name:        "broken",
		Description: "target outside the register",
		Qubits:      1,
		Circuit:     "x:5",
		Shots:       10,
		Seed:        1,
		Assertions:  []Assertion{{Type: AssertNorm, Value: 1}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario broken")
}

func TestRun_ZeroShots(t *testing.T) {
	scenario := &Scenario{
		Name:        "stateonly",
		Description: "no sampling, state assertions only",
		Qubits:      1,
		Circuit:     "h:0",
		Shots:       0,
		Seed:        1,
		Assertions: []Assertion{
			{Type: AssertProbability, Basis: "0", Value: 0.5},
			{Type: AssertNorm, Value: 1},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Counts)
}
