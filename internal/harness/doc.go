// Package harness runs declarative simulation scenarios.
//
// A scenario is a YAML file naming a circuit (inline, or via a circuit
// document), a sampler seed, and a list of assertions over the final
// wavefunction and the sampled counts:
//
//	name: bell
//	description: "Bell pair collapses to correlated outcomes"
//	qubits: 2
//	circuit: "h:0,cx:0-1"
//	shots: 1000
//	seed: 42
//	assertions:
//	  - type: probability
//	    basis: "00"
//	    value: 0.5
//	  - type: outcomes
//	    allowed: ["00", "11"]
//
// Scenarios keep the end-to-end behavior of the engine pinned down
// without hand-writing a test per circuit: adding a scenario file under
// testdata/scenarios is enough.
//
// Golden snapshots complement assertions: RunWithGolden serializes the
// exact final state to canonical JSON and compares it byte-for-byte
// against testdata/golden/{name}.golden. Snapshots capture amplitudes,
// never sampled tallies, so they stay stable across sampler changes.
package harness
