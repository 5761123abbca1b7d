package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/aris/internal/engine"
	"github.com/roach88/aris/internal/table"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool         `json:"valid"`
	Issues []TableIssue `json:"issues,omitempty"`
}

// TableIssue describes one schema problem in one input table.
type TableIssue struct {
	Family  string   `json:"family"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
	Present []string `json:"present,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Bio   string
	Demo  string
	Enrol string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check input table headers without scoring",
		Long: `Validate the three input CSV headers against the required schemas.

Only the header row of each file is read, so validation is fast even on
large tables. All three files are checked before reporting, so one bad
table does not hide problems in another.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateTables(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Bio, "bio", "", "path to biometric updates CSV (required)")
	cmd.Flags().StringVar(&opts.Demo, "demo", "", "path to demographic updates CSV (required)")
	cmd.Flags().StringVar(&opts.Enrol, "enrol", "", "path to enrolment CSV (required)")
	_ = cmd.MarkFlagRequired("bio")
	_ = cmd.MarkFlagRequired("demo")
	_ = cmd.MarkFlagRequired("enrol")

	return cmd
}

func runValidateTables(opts *ValidateOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	paths := map[table.Family]string{
		table.FamilyBiometric:   opts.Bio,
		table.FamilyDemographic: opts.Demo,
		table.FamilyEnrolment:   opts.Enrol,
	}

	var issues []TableIssue
	for _, f := range table.Families {
		formatter.VerboseLog("Checking %s header: %s", f, paths[f])
		err := table.ValidateFile(paths[f], f)
		if err == nil {
			continue
		}

		var engErr *engine.EngineError
		if errors.As(err, &engErr) {
			issues = append(issues, TableIssue{
				Family:  engErr.Family,
				Code:    ErrCodeSchema,
				Message: engErr.Message,
				Missing: engErr.Missing,
				Present: engErr.Present,
			})
			continue
		}

		// Unreadable file: command error, reported immediately.
		_ = formatter.Error(ErrCodeIO, err.Error(), nil)
		return WrapExitError(ExitCommandError, "cannot read input table", err)
	}

	if len(issues) > 0 {
		return outputValidationIssues(formatter, issues)
	}
	return outputValidateSuccess(formatter)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintln(formatter.Writer, "✓ All input tables valid")
	return nil
}

// outputValidationIssues outputs schema problems found in the inputs.
func outputValidationIssues(formatter *OutputFormatter, issues []TableIssue) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Issues: issues},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Schema failures = exit code 1 (validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(issues)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		fmt.Fprintf(formatter.Writer, "%s table\n", issue.Family)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", issue.Code, issue.Message)
		if len(issue.Missing) > 0 {
			fmt.Fprintf(formatter.Writer, "  missing: %v\n", issue.Missing)
		}
		fmt.Fprintln(formatter.Writer)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(issues)))
}
