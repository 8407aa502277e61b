package cli

import (
	"fmt"
	"math/cmplx"

	"github.com/spf13/cobra"

	"github.com/olonok69/quantum-computing/internal/circuit"
	"github.com/olonok69/quantum-computing/internal/sim"
)

// StateOptions holds flags for the state command.
type StateOptions struct {
	*RootOptions
	Qubits  int
	Circuit string
	File    string
}

// AmplitudeEntry describes one basis state of a final wavefunction.
type AmplitudeEntry struct {
	// Basis is the little-endian bit string (qubit 0 rightmost).
	Basis string `json:"basis"`

	// Index is the basis-state index in the amplitude vector.
	Index int `json:"index"`

	Real        float64 `json:"real"`
	Imag        float64 `json:"imag"`
	Probability float64 `json:"probability"`
	Phase       float64 `json:"phase"`
}

// StateResult is the state command's output payload.
type StateResult struct {
	Qubits     int              `json:"qubits"`
	Circuit    string           `json:"circuit"`
	Amplitudes []AmplitudeEntry `json:"amplitudes"`
}

// NewStateCommand creates the state command.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Print the final state vector of a circuit",
		Long: `Evolve a circuit from the ground state and print the final amplitudes,
probabilities, and phases per basis state. No sampling is involved; this is
the exact wavefunction.

Examples:
  qsim state --qubits 2 --circuit "h:0,cx:0-1"
  qsim state --file ghz.yaml --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runState(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Qubits, "qubits", 0, "number of qubits (required unless --file sets it)")
	cmd.Flags().StringVar(&opts.Circuit, "circuit", "", "circuit string, e.g. \"h:0,cx:0-1\"")
	cmd.Flags().StringVar(&opts.File, "file", "", "YAML circuit document")

	return cmd
}

func runState(opts *StateOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	qubits := opts.Qubits
	progText := opts.Circuit
	if opts.File != "" {
		doc, err := circuit.LoadDocument(opts.File)
		if err != nil {
			formatter.Error(errorCode(err), err.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid circuit document", err)
		}
		if qubits == 0 {
			qubits = doc.Qubits
		}
		if progText == "" {
			progText = doc.Circuit
		}
	}
	if progText == "" {
		err := fmt.Errorf("either --circuit or --file is required")
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid state setup", err)
	}

	prog, err := circuit.ParseString(progText)
	if err != nil {
		formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid circuit", err)
	}

	initial, err := sim.GroundState(qubits)
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid qubit count", err)
	}

	final, err := sim.NewEvolver().Run(initial, prog)
	if err != nil {
		formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "evolution failed", err)
	}

	result := StateResult{Qubits: qubits, Circuit: progText}
	for i, amp := range final.Amplitudes {
		result.Amplitudes = append(result.Amplitudes, AmplitudeEntry{
			Basis:       sim.BitString(i, qubits),
			Index:       i,
			Real:        real(amp),
			Imag:        imag(amp),
			Probability: real(amp)*real(amp) + imag(amp)*imag(amp),
			Phase:       cmplx.Phase(amp),
		})
	}

	return outputStateResult(formatter, result)
}

func outputStateResult(f *OutputFormatter, result StateResult) error {
	if f.Format == "json" {
		return f.SuccessJSON(result)
	}

	fmt.Fprintf(f.Writer, "circuit: %s  (%d qubits)\n", result.Circuit, result.Qubits)
	fmt.Fprintf(f.Writer, "%-*s  %-20s  %-11s  %s\n", result.Qubits, "basis", "amplitude", "probability", "phase")
	for _, e := range result.Amplitudes {
		fmt.Fprintf(f.Writer, "%s  %+.4f%+.4fi      %11.4f  %+.4f\n",
			e.Basis, e.Real, e.Imag, e.Probability, e.Phase)
	}
	return nil
}
