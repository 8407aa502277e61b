package harness

import (
	"fmt"

	"github.com/olonok69/quantum-computing/internal/sim"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// Circuit is the program that ran, in circuit-string form.
	// For document scenarios this is the document's circuit.
	Circuit string `json:"circuit"`

	// Final is the exact wavefunction after evolution.
	Final *sim.State `json:"-"`

	// Counts is the sampled measurement tally.
	Counts sim.Counts `json:"counts,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError records an assertion failure and marks the result failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}
