package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/aris/internal/engine"
)

// ErrNoRuns is returned by readers when the store holds no runs yet.
var ErrNoRuns = errors.New("store contains no runs")

// RunInfo describes one stored run.
type RunInfo struct {
	ID           string
	CreatedAt    string
	Observations int
	DroppedRows  int
}

// LatestRun returns the most recently inserted run.
//
// UUIDv7 run IDs sort chronologically, but created_at is the
// authoritative ordering; the ID is only the tie-breaker.
func (s *Store) LatestRun(ctx context.Context) (RunInfo, error) {
	var info RunInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, observations, dropped_rows
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`).Scan(&info.ID, &info.CreatedAt, &info.Observations, &info.DroppedRows)
	if errors.Is(err, sql.ErrNoRows) {
		return RunInfo{}, ErrNoRuns
	}
	if err != nil {
		return RunInfo{}, fmt.Errorf("query latest run: %w", err)
	}
	return info, nil
}

// DistrictRisk returns a run's district rollup ordered by risk_percent
// descending, ties by state then district ascending. A limit of 0
// returns all rows.
//
// Returns an empty slice (not nil) when the run has no districts.
func (s *Store) DistrictRisk(ctx context.Context, runID string, limit int) ([]engine.DistrictRisk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT state, district, risk_percent
		FROM district_risk
		WHERE run_id = ?
		ORDER BY risk_percent DESC, state ASC, district ASC
		LIMIT ?
	`, runID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query district risk: %w", err)
	}
	defer rows.Close()

	districts := []engine.DistrictRisk{}
	for rows.Next() {
		var d engine.DistrictRisk
		if err := rows.Scan(&d.State, &d.District, &d.RiskPercent); err != nil {
			return nil, fmt.Errorf("scan district risk: %w", err)
		}
		districts = append(districts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate district risk: %w", err)
	}

	return districts, nil
}

// StateRisk returns a run's state rollup ordered by risk_percent
// descending, ties by state ascending. A limit of 0 returns all rows.
//
// Returns an empty slice (not nil) when the run has no states.
func (s *Store) StateRisk(ctx context.Context, runID string, limit int) ([]engine.StateRisk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT state, risk_percent
		FROM state_risk
		WHERE run_id = ?
		ORDER BY risk_percent DESC, state ASC
		LIMIT ?
	`, runID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query state risk: %w", err)
	}
	defer rows.Close()

	states := []engine.StateRisk{}
	for rows.Next() {
		var st engine.StateRisk
		if err := rows.Scan(&st.State, &st.RiskPercent); err != nil {
			return nil, fmt.Errorf("scan state risk: %w", err)
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate state risk: %w", err)
	}

	return states, nil
}

// normalizeLimit maps "no limit" (0 or negative) to SQLite's -1.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
