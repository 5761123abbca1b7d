package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSignals_WeightedCombination(t *testing.T) {
	obs := []RegionMonth{{
		BioUpdateRate:  1.0,
		DemoUpdateRate: 2.0,
		BioAgeSkew:     3.0,
		DemoAgeSkew:    4.0,
		BioMoMChange:   0.5,
		DemoMoMChange:  0.5,
	}}

	computeSignals(obs)

	want := 0.30*1.0 + 0.25*2.0 + 0.20*3.0 + 0.15*4.0 + 0.10*(0.5+0.5)
	assert.InDelta(t, want, obs[0].RiskSignal, 1e-12)
}

func TestAssignPercentiles_TwoObservations(t *testing.T) {
	obs := []RegionMonth{
		{RiskSignal: 0.9},
		{RiskSignal: 0.1},
	}

	assignPercentiles(obs)

	assert.Equal(t, 100.0, obs[0].RiskPercent)
	assert.Equal(t, 0.0, obs[1].RiskPercent)
}

func TestAssignPercentiles_SingleObservation(t *testing.T) {
	obs := []RegionMonth{{RiskSignal: 0.5}}

	assignPercentiles(obs)

	assert.Equal(t, 100.0, obs[0].RiskPercent)
}

func TestAssignPercentiles_TiesGetAveragedRank(t *testing.T) {
	// Two tied signals at the bottom, one distinct at the top.
	// The tied pair holds ranks 1 and 2, averaged to 1.5:
	// (1.5-1)/(3-1)*100 = 25. The top holds rank 3: 100.
	obs := []RegionMonth{
		{RiskSignal: 0.5},
		{RiskSignal: 1.25},
		{RiskSignal: 0.5},
	}

	assignPercentiles(obs)

	assert.Equal(t, 25.0, obs[0].RiskPercent)
	assert.Equal(t, 100.0, obs[1].RiskPercent)
	assert.Equal(t, 25.0, obs[2].RiskPercent, "tied signals receive the same percent")
}

func TestAssignPercentiles_AllTied(t *testing.T) {
	obs := []RegionMonth{
		{RiskSignal: 1.0},
		{RiskSignal: 1.0},
		{RiskSignal: 1.0},
	}

	assignPercentiles(obs)

	// Average rank (1+2+3)/3 = 2 over n=3: (2-1)/2*100 = 50.
	for i := range obs {
		assert.Equal(t, 50.0, obs[i].RiskPercent)
	}
}

func TestAssignPercentiles_BoundedAndMonotonic(t *testing.T) {
	obs := []RegionMonth{
		{RiskSignal: 0.7},
		{RiskSignal: 0.1},
		{RiskSignal: 3.2},
		{RiskSignal: 0.1},
		{RiskSignal: 1.9},
		{RiskSignal: 0.4},
	}

	assignPercentiles(obs)

	for i := range obs {
		require.GreaterOrEqual(t, obs[i].RiskPercent, 0.0)
		require.LessOrEqual(t, obs[i].RiskPercent, 100.0)
		require.False(t, isNonFinite(obs[i].RiskPercent))
	}

	// signal(A) > signal(B) implies percent(A) >= percent(B).
	for i := range obs {
		for j := range obs {
			if obs[i].RiskSignal > obs[j].RiskSignal {
				assert.GreaterOrEqual(t, obs[i].RiskPercent, obs[j].RiskPercent,
					"monotonicity violated between signals %v and %v",
					obs[i].RiskSignal, obs[j].RiskSignal)
			}
		}
	}
}

func TestAssignPercentiles_RoundedToTwoDecimals(t *testing.T) {
	// n=4: second-lowest rank 2 gives (2-1)/3*100 = 33.333... -> 33.33.
	obs := []RegionMonth{
		{RiskSignal: 1},
		{RiskSignal: 2},
		{RiskSignal: 3},
		{RiskSignal: 4},
	}

	assignPercentiles(obs)

	assert.Equal(t, 0.0, obs[0].RiskPercent)
	assert.Equal(t, 33.33, obs[1].RiskPercent)
	assert.Equal(t, 66.67, obs[2].RiskPercent)
	assert.Equal(t, 100.0, obs[3].RiskPercent)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, round2(33.333333))
	assert.Equal(t, 66.67, round2(66.666666))
	assert.Equal(t, 100.0, round2(100.0))
	assert.Equal(t, 0.0, round2(0.0))
}

func TestWeightsSumToOne(t *testing.T) {
	sum := weightBioRate + weightDemoRate + weightBioSkew + weightDemoSkew + weightMoM
	assert.InDelta(t, 1.0, sum, 1e-12)
}
