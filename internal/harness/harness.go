package harness

import (
	"fmt"

	"github.com/roach88/aris/internal/engine"
)

// DefaultRunID is used when a scenario does not pin its own run ID.
// A fixed ID keeps golden snapshots stable across runs.
const DefaultRunID = "test-run-default"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if the engine run succeeded and all assertions held.
	Pass bool

	// Scored is the full engine output, kept for golden comparison
	// and debugging failed assertions.
	Scored *engine.Result

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run executes a scenario and returns the result.
//
// The scenario's inline tables are fed through the full engine pipeline
// with a fixed run ID generator, then every assertion is evaluated
// against the scored output. An engine failure (empty input) is an
// execution error, not an assertion failure.
func Run(scenario *Scenario) (*Result, error) {
	runID := scenario.RunID
	if runID == "" {
		runID = DefaultRunID
	}

	eng := engine.New(engine.WithRunIDGenerator(engine.NewFixedGenerator(runID)))

	scored, err := eng.Score(scenario.Inputs())
	if err != nil {
		return nil, fmt.Errorf("scenario %q: engine run failed: %w", scenario.Name, err)
	}

	result := &Result{Pass: true, Scored: scored}
	for _, msg := range EvaluateAssertions(scored, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}
