package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/aris/internal/engine"
	"github.com/roach88/aris/internal/store"
	"github.com/roach88/aris/internal/table"
)

// ScoreOptions holds flags for the score command.
type ScoreOptions struct {
	*RootOptions
	Bio      string
	Demo     string
	Enrol    string
	OutDir   string
	Database string

	// RunIDGenerator allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDGenerator engine.RunIDGenerator
}

// ScoreSummary is the success payload of the score command.
type ScoreSummary struct {
	RunID        string `json:"run_id"`
	Observations int    `json:"observations"`
	Districts    int    `json:"districts"`
	States       int    `json:"states"`
	DroppedRows  int    `json:"dropped_rows"`
	OutDir       string `json:"out_dir"`
	Database     string `json:"database,omitempty"`
}

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score regional risk from monthly update tables",
		Long: `Run the full scoring pipeline over the three monthly update tables.

Reads the biometric, demographic and enrolment CSV tables, merges them
per (state, district, year, month), derives behavioural indicators,
scores each observation and writes the district and state risk rankings
to the output directory. With --db the run is also persisted to SQLite.

Example:
  aris score --bio bio.csv --demo demo.csv --enrol enrol.csv --out-dir ./out
  aris score --bio bio.csv --demo demo.csv --enrol enrol.csv --out-dir ./out --db ./aris.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Bio, "bio", "", "path to biometric updates CSV (required)")
	cmd.Flags().StringVar(&opts.Demo, "demo", "", "path to demographic updates CSV (required)")
	cmd.Flags().StringVar(&opts.Enrol, "enrol", "", "path to enrolment CSV (required)")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "directory for ranking CSVs (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (optional)")
	_ = cmd.MarkFlagRequired("bio")
	_ = cmd.MarkFlagRequired("demo")
	_ = cmd.MarkFlagRequired("enrol")
	_ = cmd.MarkFlagRequired("out-dir")

	return cmd
}

func runScore(opts *ScoreOptions, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	slog.Info("reading input tables", "bio", opts.Bio, "demo", opts.Demo, "enrol", opts.Enrol)
	inputs, err := table.ReadInputs(opts.Bio, opts.Demo, opts.Enrol)
	if err != nil {
		return scoreError(formatter, err)
	}

	gen := opts.RunIDGenerator
	var engineOpts []engine.Option
	if gen != nil {
		engineOpts = append(engineOpts, engine.WithRunIDGenerator(gen))
	}
	eng := engine.New(engineOpts...)

	res, err := eng.Score(inputs)
	if err != nil {
		return scoreError(formatter, err)
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		_ = formatter.Error(ErrCodeIO, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to create output directory", err)
	}
	districtPath, statePath, err := table.WriteOutputs(opts.OutDir, res)
	if err != nil {
		_ = formatter.Error(ErrCodeIO, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to write rankings", err)
	}
	slog.Info("rankings written", "districts", districtPath, "states", statePath)

	if opts.Database != "" {
		if err := persistRun(cmd, opts.Database, res); err != nil {
			_ = formatter.Error(ErrCodeIO, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to persist run", err)
		}
		slog.Info("run persisted", "db", opts.Database, "run_id", res.RunID)
	}

	summary := ScoreSummary{
		RunID:        res.RunID,
		Observations: len(res.Observations),
		Districts:    len(res.Districts),
		States:       len(res.States),
		DroppedRows:  res.DroppedRows,
		OutDir:       opts.OutDir,
		Database:     opts.Database,
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "Run %s scored %d observation(s) across %d district(s) in %d state(s).\n",
		summary.RunID, summary.Observations, summary.Districts, summary.States)
	if summary.DroppedRows > 0 {
		fmt.Fprintf(formatter.Writer, "Dropped %d input row(s) with missing region keys.\n", summary.DroppedRows)
	}
	fmt.Fprintf(formatter.Writer, "Rankings written to %s\n", summary.OutDir)
	return nil
}

func persistRun(cmd *cobra.Command, dbPath string, res *engine.Result) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return st.WriteRun(ctx, res)
}

// scoreError maps pipeline errors onto exit codes: malformed or empty
// inputs are data failures (exit 1), everything else is a command
// error (exit 2, typically an unreadable file).
func scoreError(formatter *OutputFormatter, err error) error {
	var engErr *engine.EngineError
	if errors.As(err, &engErr) {
		switch engErr.Code {
		case engine.ErrCodeMissingColumns:
			_ = formatter.Error(ErrCodeSchema, engErr.Error(), engErr.Missing)
			return WrapExitError(ExitFailure, "input schema invalid", err)
		case engine.ErrCodeEmptyInput:
			_ = formatter.Error(ErrCodeEmptyInput, engErr.Error(), nil)
			return WrapExitError(ExitFailure, "input table empty", err)
		}
	}
	if errors.Is(err, fs.ErrNotExist) {
		_ = formatter.Error(ErrCodeIO, err.Error(), nil)
		return WrapExitError(ExitCommandError, "input file not found", err)
	}
	_ = formatter.Error(ErrCodeIO, err.Error(), nil)
	return WrapExitError(ExitCommandError, "failed to read inputs", err)
}
