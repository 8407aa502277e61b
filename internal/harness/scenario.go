package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a declarative simulation test case.
// The circuit comes either inline (Qubits + Circuit) or from a circuit
// document referenced by Document; exactly one form must be used.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Document is a path to a YAML circuit document, relative to the
	// scenario file location.
	Document string `yaml:"document,omitempty"`

	// Qubits is the system size for an inline circuit.
	Qubits int `yaml:"qubits,omitempty"`

	// Circuit is the program in circuit-string form.
	Circuit string `yaml:"circuit,omitempty"`

	// Shots is the number of measurement shots to sample.
	Shots int `yaml:"shots"`

	// Seed pins the sampler so outcome assertions are reproducible.
	Seed int64 `yaml:"seed"`

	// Workers is the sampling fan-out; zero or one means sequential.
	Workers int `yaml:"workers,omitempty"`

	// Assertions validate the final wavefunction and the sampled counts.
	// Supported types: probability, amplitude, outcomes, norm.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of a scenario run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "probability": the basis state's exact Born probability
	// - "amplitude": the basis state's exact complex amplitude
	// - "outcomes": sampled outcomes drawn only from an allowed set
	// - "norm": the final state's squared norm
	Type string `yaml:"type"`

	// Basis is the little-endian bit string naming a basis state
	// (used by probability and amplitude).
	Basis string `yaml:"basis,omitempty"`

	// Value is the expected probability or squared norm
	// (used by probability and norm).
	Value float64 `yaml:"value,omitempty"`

	// Real and Imag are the expected amplitude parts (used by amplitude).
	Real float64 `yaml:"real,omitempty"`
	Imag float64 `yaml:"imag,omitempty"`

	// Tolerance bounds the allowed deviation for numeric assertions.
	// Zero means the default of 1e-9.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Allowed lists the permitted outcome bit strings (used by outcomes).
	Allowed []string `yaml:"allowed,omitempty"`
}

// Assertion type constants.
const (
	AssertProbability = "probability"
	AssertAmplitude   = "amplitude"
	AssertOutcomes    = "outcomes"
	AssertNorm        = "norm"
)

// defaultTolerance bounds numeric assertions when a scenario does not
// set one explicitly.
const defaultTolerance = 1e-9

// LoadScenario reads and parses a scenario YAML file. Document paths are
// resolved relative to the scenario file. Returns an error if the file is
// missing, malformed, contains unknown fields (typos), or fails
// validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // reject unknown fields, catches typos
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Document != "" && !filepath.IsAbs(scenario.Document) {
		scenario.Document = filepath.Join(filepath.Dir(path), scenario.Document)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and coherent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	inline := s.Circuit != ""
	if inline == (s.Document != "") {
		return fmt.Errorf("exactly one of circuit or document is required")
	}
	if inline && s.Qubits < 1 {
		return fmt.Errorf("qubits must be >= 1 for an inline circuit")
	}
	if s.Document != "" {
		if _, err := os.Stat(s.Document); os.IsNotExist(err) {
			return fmt.Errorf("circuit document not found: %s", s.Document)
		}
	}

	if s.Shots < 0 {
		return fmt.Errorf("shots must be non-negative")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Tolerance < 0 {
		return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
	}

	switch a.Type {
	case AssertProbability:
		if a.Basis == "" {
			return fmt.Errorf("assertions[%d]: basis is required for probability", index)
		}
		if a.Value < 0 || a.Value > 1 {
			return fmt.Errorf("assertions[%d]: probability value must be in [0, 1]", index)
		}
	case AssertAmplitude:
		if a.Basis == "" {
			return fmt.Errorf("assertions[%d]: basis is required for amplitude", index)
		}
	case AssertOutcomes:
		if len(a.Allowed) == 0 {
			return fmt.Errorf("assertions[%d]: allowed list is required for outcomes", index)
		}
	case AssertNorm:
		if a.Value <= 0 {
			return fmt.Errorf("assertions[%d]: value is required for norm", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
