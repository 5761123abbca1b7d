package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/aris/internal/engine"
	"github.com/roach88/aris/internal/store"
)

// TopOptions holds flags for the top command.
type TopOptions struct {
	*RootOptions
	Database string
	States   bool
	Limit    int
}

// TopResult is the success payload of the top command.
type TopResult struct {
	RunID     string                `json:"run_id"`
	CreatedAt string                `json:"created_at"`
	Districts []engine.DistrictRisk `json:"districts,omitempty"`
	States    []engine.StateRisk    `json:"states,omitempty"`
}

// NewTopCommand creates the top command.
func NewTopCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TopOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the highest-risk regions from the latest stored run",
		Long: `Show the highest-risk districts (or states with --states) from the
most recent run persisted with score --db.

Example:
  aris top --db ./aris.db --limit 10
  aris top --db ./aris.db --states`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().BoolVar(&opts.States, "states", false, "show state rollup instead of districts")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum rows to show (0 = all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTop(opts *TopOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeIO, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	info, err := st.LatestRun(ctx)
	if errors.Is(err, store.ErrNoRuns) {
		_ = formatter.Error(ErrCodeNoRuns, "database holds no scored runs", nil)
		return WrapExitError(ExitFailure, "no runs stored", err)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeIO, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read latest run", err)
	}
	formatter.VerboseLog("Latest run %s created %s", info.ID, info.CreatedAt)

	result := TopResult{RunID: info.ID, CreatedAt: info.CreatedAt}
	if opts.States {
		result.States, err = st.StateRisk(ctx, info.ID, opts.Limit)
	} else {
		result.Districts, err = st.DistrictRisk(ctx, info.ID, opts.Limit)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeIO, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read rankings", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return printTopText(formatter, result)
}

func printTopText(formatter *OutputFormatter, result TopResult) error {
	fmt.Fprintf(formatter.Writer, "Run %s (%s)\n\n", result.RunID, result.CreatedAt)

	w := tabwriter.NewWriter(formatter.Writer, 2, 4, 2, ' ', 0)
	if result.States != nil {
		fmt.Fprintln(w, "STATE\tRISK %")
		for _, s := range result.States {
			fmt.Fprintf(w, "%s\t%.2f\n", s.State, s.RiskPercent)
		}
	} else {
		fmt.Fprintln(w, "STATE\tDISTRICT\tRISK %")
		for _, d := range result.Districts {
			fmt.Fprintf(w, "%s\t%s\t%.2f\n", d.State, d.District, d.RiskPercent)
		}
	}
	return w.Flush()
}
