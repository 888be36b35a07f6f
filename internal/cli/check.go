package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docwatch/docwatch/internal/config"
)

// CheckResult holds config validation results.
type CheckResult struct {
	Valid  bool                     `json:"valid"`
	Errors []config.ValidationError `json:"errors,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <config.yaml>",
		Short: "Validate a configuration file",
		Long: `Validate a configuration file without starting anything.

Reports every schema violation with its config path, so a broken file can be
fixed in one pass before serve or dash pick it up.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	_, err := config.Load(path)
	if err == nil {
		if formatter.Format == "json" {
			return formatter.Success(CheckResult{Valid: true})
		}
		fmt.Fprintln(formatter.Writer, "✓ Configuration valid")
		return nil
	}

	var verrs config.ValidationErrors
	if !errors.As(err, &verrs) {
		// Unreadable file or broken YAML, not a schema violation.
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	return outputCheckErrors(formatter, verrs)
}

// outputCheckErrors outputs every violation and maps the failure to exit
// code 1.
func outputCheckErrors(formatter *OutputFormatter, verrs config.ValidationErrors) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   CheckResult{Valid: false, Errors: verrs},
			Error: &CLIError{
				Code:    "E002",
				Message: verrs[0].Error(),
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(verrs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Configuration invalid")
	fmt.Fprintln(formatter.Writer)
	for _, verr := range verrs {
		if verr.Path != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", verr.Path, verr.Message)
			continue
		}
		fmt.Fprintf(formatter.Writer, "  %s\n", verr.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(verrs)))
}
