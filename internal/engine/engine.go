package engine

import "log/slog"

// Engine computes risk scores from the three canonical monthly metric
// tables. It is a pure transform: no I/O, no retained state between
// runs, safe to re-run at any time. A run either produces a complete
// Result or fails with an error; it never produces partial output.
//
// Thread-safety: an Engine holds no mutable state, so concurrent Score
// calls are safe, but a single run is strictly sequential. The only
// stage-level parallelism that would be safe is across the three
// family aggregations, which share nothing before the merge; everything
// from the merge onward is a dependency chain. Not worth it at current
// data volumes.
type Engine struct {
	runIDGen RunIDGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithRunIDGenerator overrides the run ID generator. Tests use
// NewFixedGenerator for deterministic run IDs.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.runIDGen = g
	}
}

// New creates an Engine. By default run IDs are UUIDv7.
func New(opts ...Option) *Engine {
	e := &Engine{
		runIDGen: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score runs the full pipeline over the given inputs and returns the
// complete result for this run.
//
// Stage order is fixed: aggregate each family, merge, derive features,
// compute volatility, score and rank, roll up. Every entity is
// recomputed from scratch; the result is immutable once returned and
// should be consumed read-only.
//
// Errors:
//   - EMPTY_INPUT if any family table has zero rows, or if every
//     biometric row was dropped for a missing region key. A percentile
//     rank over an empty population cannot be computed, so the run
//     aborts rather than emitting empty tables.
//
// Schema violations are detected when the tables are decoded, before
// they reach the engine; see the table package.
func (e *Engine) Score(in Inputs) (*Result, error) {
	runID := e.runIDGen.Generate()

	if len(in.Bio) == 0 {
		return nil, NewEmptyInputError("biometric")
	}
	if len(in.Demo) == 0 {
		return nil, NewEmptyInputError("demographic")
	}
	if len(in.Enrol) == 0 {
		return nil, NewEmptyInputError("enrolment")
	}

	slog.Debug("run starting",
		"run_id", runID,
		"bio_rows", len(in.Bio),
		"demo_rows", len(in.Demo),
		"enrol_rows", len(in.Enrol),
	)

	bioAgg, bioDropped := aggregateBio(in.Bio)
	demoAgg, demoDropped := aggregateDemo(in.Demo)
	enrolAgg, enrolDropped := aggregateEnrol(in.Enrol)
	dropped := bioDropped + demoDropped + enrolDropped

	if len(bioAgg) == 0 {
		// Every biometric row was dropped for a missing region key.
		// The biometric aggregate anchors the merge, so there is
		// nothing to score.
		return nil, NewEmptyInputError("biometric")
	}

	obs := mergeAggregates(bioAgg, demoAgg, enrolAgg)
	deriveFeatures(obs)
	computeVolatility(obs)
	computeSignals(obs)
	assignPercentiles(obs)

	districts := rollupDistricts(obs)
	states := rollupStates(districts)

	slog.Info("run complete",
		"run_id", runID,
		"observations", len(obs),
		"districts", len(districts),
		"states", len(states),
		"dropped_rows", dropped,
	)

	return &Result{
		RunID:        runID,
		Observations: obs,
		Districts:    districts,
		States:       states,
		DroppedRows:  dropped,
	}, nil
}
