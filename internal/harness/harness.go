package harness

import (
	"fmt"

	"github.com/olonok69/quantum-computing/internal/circuit"
	"github.com/olonok69/quantum-computing/internal/sim"
)

// Run executes a scenario: evolve the circuit from the ground state,
// sample measurements with the scenario seed, and evaluate every
// assertion against the final state and the tally.
//
// A non-nil error means the scenario could not execute at all (bad
// document, malformed circuit, invalid targets). Assertion failures do
// not return an error; they land in Result.Errors with Pass false.
func Run(scenario *Scenario) (*Result, error) {
	qubits := scenario.Qubits
	progText := scenario.Circuit
	if scenario.Document != "" {
		doc, err := circuit.LoadDocument(scenario.Document)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		qubits = doc.Qubits
		progText = doc.Circuit
	}

	prog, err := circuit.ParseString(progText)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	initial, err := sim.GroundState(qubits)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	final, err := sim.NewEvolver().Run(initial, prog)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	sampler := sim.NewSeededSampler(scenario.Seed)
	var counts sim.Counts
	if scenario.Workers > 1 {
		counts, err = sampler.CountsParallel(final, scenario.Shots, scenario.Workers)
	} else {
		counts, err = sampler.GetCounts(final, scenario.Shots)
	}
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	result.Circuit = progText
	result.Final = final
	result.Counts = counts

	if total := counts.Total(); total != scenario.Shots {
		result.AddError("tally total %d does not match %d shots", total, scenario.Shots)
	}
	for i, assertion := range scenario.Assertions {
		evaluateAssertion(result, i, &assertion, final, counts)
	}
	return result, nil
}
