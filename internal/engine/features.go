package engine

// deriveFeatures computes the ratio- and skew-based indicators for
// every merged observation, in place.
//
// All four ratios use denominator smoothing (+1). This guarantees a
// finite result for any non-negative inputs and damps extreme ratios
// for low-volume regions: a region with 0 enrolments and 1 update
// yields rate 1/1 = 1, not infinity.
//
// Age skews above 1 indicate child-update-dominant behavior, which the
// domain treats as higher risk (a common shape of identity-fraud
// patterns involving minors).
func deriveFeatures(obs []RegionMonth) {
	for i := range obs {
		r := &obs[i]

		r.TotalBioUpdates = float64(r.Bio517 + r.Bio17Plus)
		r.TotalDemoUpdates = float64(r.Demo517 + r.Demo17Plus)

		r.BioUpdateRate = r.TotalBioUpdates / float64(r.Enrolment+1)
		r.DemoUpdateRate = r.TotalDemoUpdates / float64(r.Enrolment+1)

		r.BioAgeSkew = float64(r.Bio517) / float64(r.Bio17Plus+1)
		r.DemoAgeSkew = float64(r.Demo517) / float64(r.Demo17Plus+1)
	}
}
