package store

import (
	"context"
	"fmt"

	"github.com/roach88/aris/internal/engine"
)

// WriteRun persists a finished run and both rollup tables in a single
// transaction.
//
// Atomicity is the point: either the run row and every rollup row
// commit together, or nothing is written. A crash or constraint
// failure mid-run leaves the database without any trace of the run,
// mirroring the engine's no-partial-output rule.
//
// Run IDs are unique per run (UUIDv7), so writing the same Result
// twice is an error, not an upsert.
func (s *Store) WriteRun(ctx context.Context, res *engine.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run %s: begin tx: %w", res.RunID, err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, observations, dropped_rows)
		VALUES (?, ?, ?)
	`, res.RunID, len(res.Observations), res.DroppedRows)
	if err != nil {
		return fmt.Errorf("write run %s: %w", res.RunID, err)
	}

	for _, d := range res.Districts {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO district_risk (run_id, state, district, risk_percent)
			VALUES (?, ?, ?, ?)
		`, res.RunID, d.State, d.District, d.RiskPercent)
		if err != nil {
			return fmt.Errorf("write run %s: district %s/%s: %w", res.RunID, d.State, d.District, err)
		}
	}

	for _, st := range res.States {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO state_risk (run_id, state, risk_percent)
			VALUES (?, ?, ?)
		`, res.RunID, st.State, st.RiskPercent)
		if err != nil {
			return fmt.Errorf("write run %s: state %s: %w", res.RunID, st.State, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run %s: commit: %w", res.RunID, err)
	}

	return nil
}
