package engine

import (
	"math"
	"sort"
)

// Risk signal weights. Fixed, and they sum to 1.0 so each indicator's
// share of the signal is directly interpretable. Documented rather than
// dynamically validated.
const (
	weightBioRate  = 0.30
	weightDemoRate = 0.25
	weightBioSkew  = 0.20
	weightDemoSkew = 0.15
	weightMoM      = 0.10
)

// computeSignals fills RiskSignal for every observation, in place.
//
// The signal is a weighted linear combination of the derived
// indicators. Every term is finite by construction (smoothed ratios,
// clamped volatility), so the signal is finite for all valid inputs.
func computeSignals(obs []RegionMonth) {
	for i := range obs {
		r := &obs[i]
		r.RiskSignal = weightBioRate*r.BioUpdateRate +
			weightDemoRate*r.DemoUpdateRate +
			weightBioSkew*r.BioAgeSkew +
			weightDemoSkew*r.DemoAgeSkew +
			weightMoM*(r.BioMoMChange+r.DemoMoMChange)
	}
}

// assignPercentiles converts RiskSignal into RiskPercent, in place.
//
// RiskPercent is the percentile rank of the signal across ALL
// observations in the run - not per state, not per month. The rank is
// computed over the full dataset in two passes: a stable sort of the
// signal values, then rank assignment with tie averaging (tied signals
// receive the same averaged rank, never first-seen or arbitrary
// tie-breaking).
//
// Scaling places the averaged rank on [0, 100]: the lowest signal
// scores 0, the highest 100, and an observation's score is the
// tie-averaged fraction of the population strictly below it. A run
// with a single observation scores 100. Rounded to 2 decimal places.
func assignPercentiles(obs []RegionMonth) {
	n := len(obs)
	if n == 0 {
		return
	}

	// Pass 1: sortable index over the signal values. The sort is stable
	// so equal signals keep their slice order, though tie averaging
	// makes the final percent independent of that order anyway.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return obs[idx[a]].RiskSignal < obs[idx[b]].RiskSignal
	})

	// Pass 2: walk runs of equal signals and assign the averaged rank.
	// Positions i..j-1 (0-based) hold 1-based ranks i+1..j, whose
	// average is (i+j+1)/2.
	i := 0
	for i < n {
		j := i + 1
		for j < n && obs[idx[j]].RiskSignal == obs[idx[i]].RiskSignal {
			j++
		}
		avgRank := float64(i+j+1) / 2
		percent := percentFromRank(avgRank, n)
		for k := i; k < j; k++ {
			obs[idx[k]].RiskPercent = percent
		}
		i = j
	}
}

// percentFromRank scales a 1-based (possibly tie-averaged) rank to
// [0, 100] with 2-decimal rounding.
func percentFromRank(rank float64, n int) float64 {
	if n == 1 {
		return 100
	}
	return round2((rank - 1) / float64(n-1) * 100)
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
