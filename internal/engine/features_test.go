package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveFeatures_SmoothedRates(t *testing.T) {
	obs := []RegionMonth{{
		Bio517: 5, Bio17Plus: 2,
		Demo517: 1, Demo17Plus: 3,
		Enrolment: 10,
	}}

	deriveFeatures(obs)

	r := obs[0]
	assert.Equal(t, 7.0, r.TotalBioUpdates)
	assert.Equal(t, 4.0, r.TotalDemoUpdates)
	assert.InDelta(t, 7.0/11.0, r.BioUpdateRate, 1e-12)
	assert.InDelta(t, 4.0/11.0, r.DemoUpdateRate, 1e-12)
	assert.InDelta(t, 5.0/3.0, r.BioAgeSkew, 1e-12)
	assert.InDelta(t, 1.0/4.0, r.DemoAgeSkew, 1e-12)
}

func TestDeriveFeatures_ZeroDenominatorSafety(t *testing.T) {
	// 0 enrolments and 5 updates must yield rate 5/1 = 5.0, not an
	// error or infinity.
	obs := []RegionMonth{{
		Bio517: 5, Bio17Plus: 0,
		Enrolment: 0,
	}}

	deriveFeatures(obs)

	r := obs[0]
	assert.Equal(t, 5.0, r.BioUpdateRate)
	assert.Equal(t, 5.0, r.BioAgeSkew, "0 adult updates smooths to /1")
	assert.Equal(t, 0.0, r.DemoUpdateRate)
	assert.Equal(t, 0.0, r.DemoAgeSkew)
}

func TestDeriveFeatures_AllRatiosFinite(t *testing.T) {
	cases := []struct {
		name string
		r    RegionMonth
	}{
		{"all zero", RegionMonth{}},
		{"zero enrolment", RegionMonth{Bio517: 1, Demo17Plus: 1}},
		{"large counts", RegionMonth{Bio517: 1 << 40, Bio17Plus: 1, Enrolment: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obs := []RegionMonth{tc.r}
			deriveFeatures(obs)
			for _, v := range []float64{
				obs[0].BioUpdateRate, obs[0].DemoUpdateRate,
				obs[0].BioAgeSkew, obs[0].DemoAgeSkew,
			} {
				assert.False(t, isNonFinite(v), "ratio must be finite, got %v", v)
			}
		})
	}
}
