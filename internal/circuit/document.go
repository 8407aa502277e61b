package circuit

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Document is a named circuit definition loaded from a YAML file.
//
// Documents carry run defaults (qubit count, shot count, optional seed)
// alongside the circuit string, so a stored file fully describes a
// reproducible run.
type Document struct {
	// Name identifies the circuit.
	Name string `yaml:"name"`

	// Qubits is the system size.
	Qubits int `yaml:"qubits"`

	// Shots is the default measurement count for this circuit.
	// Nil means unset; ShotCount applies the schema default.
	Shots *int `yaml:"shots,omitempty"`

	// Circuit is the program in circuit-string form.
	Circuit string `yaml:"circuit"`

	// Seed optionally pins the sampler for reproducible counts.
	Seed *int64 `yaml:"seed,omitempty"`

	// Description is free-form documentation.
	Description string `yaml:"description,omitempty"`
}

// Program parses the document's circuit string.
func (d *Document) Program() (Program, error) {
	return ParseString(d.Circuit)
}

// defaultShots matches the schema default for documents that omit shots.
const defaultShots = 1024

// ShotCount returns the document's shot count, applying the schema default
// when the field is unset. An explicit zero is honored as zero.
func (d *Document) ShotCount() int {
	if d.Shots == nil {
		return defaultShots
	}
	return *d.Shots
}

// SchemaError reports a circuit document that does not satisfy the schema.
type SchemaError struct {
	// File is the document path, if known.
	File string

	// Message is the CUE validation failure, with positions.
	Message string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("circuit document %s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("circuit document: %s", e.Message)
}

// ValidateDocument checks raw YAML document bytes against the embedded CUE
// schema. It validates structure only; the circuit string itself is parsed
// separately by ParseString.
func ValidateDocument(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return &SchemaError{File: filename, Message: cueerrors.Details(err, nil)}
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return &SchemaError{File: filename, Message: cueerrors.Details(err, nil)}
	}

	unified := schema.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{File: filename, Message: cueerrors.Details(err, nil)}
	}
	return nil
}

// LoadDocument reads, validates, and decodes a YAML circuit document.
// The circuit string is parsed as well, so a returned Document is fully
// usable: schema-valid and gate-valid.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read circuit document: %w", err)
	}

	if err := ValidateDocument(path, data); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode circuit document %s: %w", path, err)
	}

	if _, err := doc.Program(); err != nil {
		return nil, fmt.Errorf("circuit document %s: %w", path, err)
	}
	return &doc, nil
}
