package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/aris/internal/table"
)

// RunWithGolden executes a scenario and compares its published output
// against a golden file. The golden file is stored in
// testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// The snapshot is the pair of ranking CSVs exactly as the score command
// would write them, so golden files record the byte-for-byte contract
// with the dashboard collaborator.
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if output doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	snapshot, err := buildSnapshot(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)

	return nil
}

// buildSnapshot renders the scenario's scored output in the published
// CSV format, prefixed with the scenario identity.
func buildSnapshot(scenario *Scenario, result *Result) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "scenario: %s\n", scenario.Name)
	fmt.Fprintf(&buf, "run_id: %s\n", result.Scored.RunID)
	fmt.Fprintf(&buf, "observations: %d\n", len(result.Scored.Observations))

	fmt.Fprintf(&buf, "\n-- %s --\n", table.DistrictRiskFile)
	if err := table.EncodeDistrictRisk(&buf, result.Scored.Districts); err != nil {
		return nil, err
	}

	fmt.Fprintf(&buf, "\n-- %s --\n", table.StateRiskFile)
	if err := table.EncodeStateRisk(&buf, result.Scored.States); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
