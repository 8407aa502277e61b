package harness

import (
	"fmt"
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/olonok69/quantum-computing/internal/canon"
	"github.com/olonok69/quantum-computing/internal/sim"
)

// StateSnapshot captures the exact final wavefunction of a scenario.
// Amplitude parts are fixed-precision strings so the canonical JSON
// encoding stays byte-stable.
type StateSnapshot struct {
	Name       string
	Qubits     int
	Circuit    string
	Amplitudes []AmplitudeRow
}

// AmplitudeRow is one basis state of a snapshot.
type AmplitudeRow struct {
	Basis string
	Re    string
	Im    string
}

// snapshotPrecision is the fractional precision of snapshot amplitudes.
// Six digits is far above the evolution's rounding noise and low enough
// that snapshots for standard circuits can be written by hand.
const snapshotPrecision = 6

// formatAmplitudePart renders one real part at snapshot precision.
// Values below the sampler's renormalization tolerance collapse to +0 so
// rounding noise can never flip a sign in the snapshot.
func formatAmplitudePart(v float64) string {
	if math.Abs(v) < 1e-9 {
		v = 0
	}
	return fmt.Sprintf("%+.*f", snapshotPrecision, v)
}

// Snapshot builds a snapshot of a final state.
func Snapshot(name, circuit string, final *sim.State) StateSnapshot {
	rows := make([]AmplitudeRow, len(final.Amplitudes))
	for i, amp := range final.Amplitudes {
		rows[i] = AmplitudeRow{
			Basis: sim.BitString(i, final.Qubits),
			Re:    formatAmplitudePart(real(amp)),
			Im:    formatAmplitudePart(imag(amp)),
		}
	}
	return StateSnapshot{
		Name:       name,
		Qubits:     final.Qubits,
		Circuit:    circuit,
		Amplitudes: rows,
	}
}

// toCanonicalMap converts the snapshot to the shapes canon.Marshal
// accepts.
func (s StateSnapshot) toCanonicalMap() map[string]any {
	rows := make([]any, len(s.Amplitudes))
	for i, row := range s.Amplitudes {
		rows[i] = map[string]any{
			"basis": row.Basis,
			"re":    row.Re,
			"im":    row.Im,
		}
	}
	return map[string]any{
		"name":       s.Name,
		"qubits":     s.Qubits,
		"circuit":    s.Circuit,
		"amplitudes": rows,
	}
}

// RunWithGolden executes a scenario and compares the final state's
// canonical snapshot against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario fails to execute or any of its
// assertions fail; a snapshot mismatch fails the test via goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if !result.Pass {
		return fmt.Errorf("scenario %s failed: %v", scenario.Name, result.Errors)
	}

	snapshot := Snapshot(scenario.Name, result.Circuit, result.Final)
	data, err := canon.Marshal(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
