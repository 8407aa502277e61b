package cli

import (
	"github.com/spf13/cobra"

	"github.com/olonok69/quantum-computing/internal/circuit"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Circuit string
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	Target    string `json:"target"`
	Qubits    int    `json:"qubits,omitempty"`
	Gates     int    `json:"gates,omitempty"`
	Problem   string `json:"problem,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [circuit-document.yaml]",
		Short: "Validate a circuit without running it",
		Long: `Validate a YAML circuit document against the schema, or a raw circuit
string with --circuit, without running the simulation.

Documents are checked structurally (CUE schema: name, qubit bounds, shot
bounds) and their circuit strings parsed against the gate catalog.

Exit codes:
  0 - valid
  1 - validation failed
  2 - command error (file not found, etc.)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			return runValidate(opts, target, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Circuit, "circuit", "", "validate a raw circuit string instead of a document")

	return cmd
}

func runValidate(opts *ValidateOptions, target string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if (target == "") == (opts.Circuit == "") {
		err := NewExitError(ExitCommandError, "exactly one of a document path or --circuit is required")
		formatter.Error(ErrCodeGeneric, err.Message, nil)
		return err
	}

	result := ValidationResult{Valid: true}
	if opts.Circuit != "" {
		result.Target = opts.Circuit
		prog, err := circuit.ParseString(opts.Circuit)
		if err != nil {
			return outputInvalid(formatter, result, err)
		}
		result.Gates = len(prog)
	} else {
		result.Target = target
		doc, err := circuit.LoadDocument(target)
		if err != nil {
			return outputInvalid(formatter, result, err)
		}
		prog, err := doc.Program()
		if err != nil {
			return outputInvalid(formatter, result, err)
		}
		result.Qubits = doc.Qubits
		result.Gates = len(prog)
	}

	return outputValid(formatter, result)
}

func outputValid(f *OutputFormatter, result ValidationResult) error {
	if f.Format == "json" {
		return f.SuccessJSON(result)
	}
	f.VerboseLog("parsed %d gate(s)", result.Gates)
	_, err := f.Writer.Write([]byte("valid\n"))
	return err
}

func outputInvalid(f *OutputFormatter, result ValidationResult, cause error) error {
	result.Valid = false
	result.Problem = cause.Error()
	result.ErrorCode = errorCode(cause)

	if f.Format == "json" {
		if err := f.SuccessJSON(result); err != nil {
			return err
		}
	} else {
		f.Error(result.ErrorCode, result.Problem, nil)
	}
	return WrapExitError(ExitFailure, "validation failed", cause)
}
