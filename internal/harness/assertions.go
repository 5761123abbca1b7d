package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/aris/internal/engine"
)

// percentTolerance absorbs the 2-decimal rounding applied by the
// scorer: two values that render identically in the output CSVs are
// equal for assertion purposes.
const percentTolerance = 0.005

// AssertionError is returned when an assertion fails.
// It includes both sides of the comparison to make failures debuggable
// without re-running the scenario.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions runs every assertion against the scored result and
// returns all failure messages. Assertions are independent: one failure
// does not stop evaluation of the rest.
func EvaluateAssertions(res *engine.Result, assertions []Assertion) []string {
	var failures []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertDistrictRisk:
			err = assertDistrictRisk(res, a)
		case AssertStateRisk:
			err = assertStateRisk(res, a)
		case AssertObservation:
			err = assertObservation(res, a)
		case AssertObservationCount:
			err = assertObservationCount(res, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

// assertDistrictRisk checks one row of the district rollup.
func assertDistrictRisk(res *engine.Result, a Assertion) error {
	for _, d := range res.Districts {
		if d.State == a.State && d.District == a.District {
			if !closeEnough(d.RiskPercent, *a.RiskPercent) {
				return &AssertionError{
					Type:     AssertDistrictRisk,
					Expected: fmt.Sprintf("(%s, %s) risk_percent %.2f", a.State, a.District, *a.RiskPercent),
					Actual:   fmt.Sprintf("risk_percent %.2f", d.RiskPercent),
				}
			}
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertDistrictRisk,
		Expected: fmt.Sprintf("district (%s, %s) in rollup", a.State, a.District),
		Actual:   "not found",
	}
}

// assertStateRisk checks one row of the state rollup.
func assertStateRisk(res *engine.Result, a Assertion) error {
	for _, s := range res.States {
		if s.State == a.State {
			if !closeEnough(s.RiskPercent, *a.RiskPercent) {
				return &AssertionError{
					Type:     AssertStateRisk,
					Expected: fmt.Sprintf("%s risk_percent %.2f", a.State, *a.RiskPercent),
					Actual:   fmt.Sprintf("risk_percent %.2f", s.RiskPercent),
				}
			}
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertStateRisk,
		Expected: fmt.Sprintf("state %s in rollup", a.State),
		Actual:   "not found",
	}
}

// assertObservation checks derived fields of one region-month
// observation. Only the fields named in expect are validated.
func assertObservation(res *engine.Result, a Assertion) error {
	for i := range res.Observations {
		obs := &res.Observations[i]
		if obs.State != a.State || obs.District != a.District ||
			obs.Year != a.Year || obs.Month != a.Month {
			continue
		}
		for field, expected := range a.Expect {
			actual, err := observationField(obs, field)
			if err != nil {
				return err
			}
			if !closeEnough(actual, expected) {
				return &AssertionError{
					Type: AssertObservation,
					Expected: fmt.Sprintf("(%s, %s, %d-%02d) %s = %g",
						a.State, a.District, a.Year, a.Month, field, expected),
					Actual: fmt.Sprintf("%s = %g", field, actual),
				}
			}
		}
		return nil
	}
	return &AssertionError{
		Type:     AssertObservation,
		Expected: fmt.Sprintf("observation (%s, %s, %d-%02d)", a.State, a.District, a.Year, a.Month),
		Actual:   "not found",
	}
}

// assertObservationCount checks the total number of observations.
func assertObservationCount(res *engine.Result, a Assertion) error {
	if len(res.Observations) != a.Count {
		return &AssertionError{
			Type:     AssertObservationCount,
			Expected: fmt.Sprintf("%d observation(s)", a.Count),
			Actual:   fmt.Sprintf("%d observation(s)", len(res.Observations)),
		}
	}
	return nil
}

// observationField resolves a derived field by its scenario name.
// The names mirror the published column vocabulary rather than the Go
// field names so scenarios stay readable to non-Go collaborators.
func observationField(obs *engine.RegionMonth, field string) (float64, error) {
	switch field {
	case "total_bio_updates":
		return obs.TotalBioUpdates, nil
	case "total_demo_updates":
		return obs.TotalDemoUpdates, nil
	case "bio_update_rate":
		return obs.BioUpdateRate, nil
	case "demo_update_rate":
		return obs.DemoUpdateRate, nil
	case "bio_age_skew":
		return obs.BioAgeSkew, nil
	case "demo_age_skew":
		return obs.DemoAgeSkew, nil
	case "bio_mom_change":
		return obs.BioMoMChange, nil
	case "demo_mom_change":
		return obs.DemoMoMChange, nil
	case "risk_signal":
		return obs.RiskSignal, nil
	case "risk_percent":
		return obs.RiskPercent, nil
	default:
		return 0, fmt.Errorf("unknown observation field %q", field)
	}
}

func closeEnough(actual, expected float64) bool {
	return math.Abs(actual-expected) <= percentTolerance
}
