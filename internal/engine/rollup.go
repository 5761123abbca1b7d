package engine

import "sort"

// rollupDistricts groups observations by (state, district) and takes
// the arithmetic mean of RiskPercent per district.
//
// The result is sorted by RiskPercent descending; equal scores break
// by state then district ascending so output order is deterministic.
func rollupDistricts(obs []RegionMonth) []DistrictRisk {
	sums := make(map[RegionKey]float64)
	counts := make(map[RegionKey]int)

	for i := range obs {
		rk := obs[i].Key().Region()
		sums[rk] += obs[i].RiskPercent
		counts[rk]++
	}

	districts := make([]DistrictRisk, 0, len(sums))
	for rk, sum := range sums {
		districts = append(districts, DistrictRisk{
			State:       rk.State,
			District:    rk.District,
			RiskPercent: sum / float64(counts[rk]),
		})
	}

	sortByRiskDesc(districts, func(d DistrictRisk) (float64, string, string) {
		return d.RiskPercent, d.State, d.District
	})

	return districts
}

// rollupStates groups the district rollup (not the raw observations) by
// state and takes the arithmetic mean of the district means.
//
// Mean-of-means, not a flat mean over all months: each district
// contributes equally to its state regardless of how many months it
// was observed.
func rollupStates(districts []DistrictRisk) []StateRisk {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, d := range districts {
		sums[d.State] += d.RiskPercent
		counts[d.State]++
	}

	states := make([]StateRisk, 0, len(sums))
	for state, sum := range sums {
		states = append(states, StateRisk{
			State:       state,
			RiskPercent: sum / float64(counts[state]),
		})
	}

	sortByRiskDesc(states, func(s StateRisk) (float64, string, string) {
		return s.RiskPercent, s.State, ""
	})

	return states
}

// sortByRiskDesc sorts rollup rows by risk descending, then by the
// name keys ascending for stable ties.
func sortByRiskDesc[T any](rows []T, key func(T) (risk float64, primary, secondary string)) {
	sort.Slice(rows, func(i, j int) bool {
		ri, pi, si := key(rows[i])
		rj, pj, sj := key(rows[j])
		if ri != rj {
			return ri > rj
		}
		if pi != pj {
			return pi < pj
		}
		return si < sj
	})
}
