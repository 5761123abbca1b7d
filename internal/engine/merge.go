package engine

import "sort"

// mergeAggregates joins the three family aggregates into one
// RegionMonth slice, anchored on the biometric aggregate.
//
// The join is left-preserving: every biometric key is retained even if
// no matching demographic or enrolment aggregate exists, in which case
// the absent counts fill with zero. Biometric coverage is assumed most
// complete; a missing demographic or enrolment record for a known
// region-month means "zero updates", not "missing data". The rate
// formulas downstream are defined to tolerate zero inputs.
//
// Keys present only in the demographic or enrolment aggregates have no
// biometric anchor and do not produce observations.
//
// The result is sorted by (state, district, year, month) ascending so
// every downstream stage sees a deterministic order regardless of map
// iteration.
func mergeAggregates(bio map[Key]bioTotals, demo map[Key]demoTotals, enrol map[Key]int64) []RegionMonth {
	merged := make([]RegionMonth, 0, len(bio))

	for k, b := range bio {
		d := demo[k]  // zero value when absent
		e := enrol[k] // zero when absent

		merged = append(merged, RegionMonth{
			State:      k.State,
			District:   k.District,
			Year:       k.Year,
			Month:      k.Month,
			Bio517:     b.bio517,
			Bio17Plus:  b.bio17Plus,
			Demo517:    d.demo517,
			Demo17Plus: d.demo17Plus,
			Enrolment:  e,
		})
	}

	sort.Slice(merged, func(i, j int) bool {
		a, b := &merged[i], &merged[j]
		if a.State != b.State {
			return a.State < b.State
		}
		if a.District != b.District {
			return a.District < b.District
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})

	return merged
}
