package engine

import "math"

// computeVolatility fills BioMoMChange and DemoMoMChange for every
// observation, in place.
//
// For each (state, district) group, in (year, month) ascending order,
// the change is |current - previous| / previous against the
// immediately preceding month's rate. Only magnitude contributes to
// risk; direction is not distinguished.
//
// Edge cases:
//   - The first observation in a group has no predecessor: change is 0.
//   - A zero previous rate would make the ratio infinite: the change is
//     clamped to 0, not capped at a large finite value. This treats
//     "went from nothing to something" as non-volatile, which
//     understates true volatility for regions with intermittent low
//     activity. Known modeling trade-off, kept deliberately; an
//     alternate implementation might reasonably cap instead.
//
// Requires obs sorted by (state, district, year, month) ascending,
// which mergeAggregates guarantees: consecutive entries for the same
// region are consecutive months in the slice.
func computeVolatility(obs []RegionMonth) {
	var prev *RegionMonth

	for i := range obs {
		r := &obs[i]

		if prev == nil || prev.State != r.State || prev.District != r.District {
			// First observation for this region.
			r.BioMoMChange = 0
			r.DemoMoMChange = 0
		} else {
			r.BioMoMChange = relativeChange(prev.BioUpdateRate, r.BioUpdateRate)
			r.DemoMoMChange = relativeChange(prev.DemoUpdateRate, r.DemoUpdateRate)
		}

		prev = r
	}
}

// relativeChange returns |cur - prev| / prev, clamped to 0 when the
// previous value is 0.
func relativeChange(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return math.Abs((cur - prev) / prev)
}
