package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aris/internal/engine"
)

func sampleResult(runID string) *engine.Result {
	return &engine.Result{
		RunID: runID,
		Observations: []engine.RegionMonth{
			{State: "Kerala", District: "Kochi", Year: 2024, Month: 1, RiskPercent: 100},
			{State: "Karnataka", District: "Bengaluru", Year: 2024, Month: 1, RiskPercent: 0},
		},
		Districts: []engine.DistrictRisk{
			{State: "Kerala", District: "Kochi", RiskPercent: 100},
			{State: "Karnataka", District: "Bengaluru", RiskPercent: 0},
		},
		States: []engine.StateRisk{
			{State: "Kerala", RiskPercent: 100},
			{State: "Karnataka", RiskPercent: 0},
		},
		DroppedRows: 3,
	}
}

func TestWriteRun_PersistsEverything(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, sampleResult("run-1")))

	info, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", info.ID)
	assert.Equal(t, 2, info.Observations)
	assert.Equal(t, 3, info.DroppedRows)

	districts, err := s.DistrictRisk(ctx, "run-1", 0)
	require.NoError(t, err)
	assert.Len(t, districts, 2)

	states, err := s.StateRisk(ctx, "run-1", 0)
	require.NoError(t, err)
	assert.Len(t, states, 2)
}

func TestWriteRun_DuplicateRunIDFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, sampleResult("run-1")))
	err := s.WriteRun(ctx, sampleResult("run-1"))
	require.Error(t, err, "stored runs are immutable - same ID cannot be rewritten")
}

func TestWriteRun_FailureWritesNothing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Duplicate district key inside one result forces a constraint
	// failure after the run row was already inserted in the tx.
	res := sampleResult("run-bad")
	res.Districts = append(res.Districts, res.Districts[0])

	err := s.WriteRun(ctx, res)
	require.Error(t, err)

	// The transaction must have rolled everything back.
	_, err = s.LatestRun(ctx)
	assert.ErrorIs(t, err, ErrNoRuns)

	districts, err := s.DistrictRisk(ctx, "run-bad", 0)
	require.NoError(t, err)
	assert.Empty(t, districts)
}

func TestWriteRun_MultipleRunsCoexist(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, sampleResult("run-1")))
	require.NoError(t, s.WriteRun(ctx, sampleResult("run-2")))

	d1, err := s.DistrictRisk(ctx, "run-1", 0)
	require.NoError(t, err)
	d2, err := s.DistrictRisk(ctx, "run-2", 0)
	require.NoError(t, err)
	assert.Len(t, d1, 2)
	assert.Len(t, d2, 2)
}
