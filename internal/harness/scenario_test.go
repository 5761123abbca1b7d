package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/two_regions_single_month.yaml")
	require.NoError(t, err)

	assert.Equal(t, "two_regions_single_month", s.Name)
	assert.NotEmpty(t, s.Description)
	assert.Len(t, s.Bio, 2)
	assert.Len(t, s.Demo, 2)
	assert.Len(t, s.Enrol, 2)
	assert.NotEmpty(t, s.Assertions)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario("testdata/does_not_exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	path := writeScenarioFile(t, `
name: typo_scenario
description: "unknown key should be rejected"
bio:
  - {state: A, district: B, year: 2024, month: 1, bio_5_17: 1, bio_17_plus: 1}
demo:
  - {state: A, district: B, year: 2024, month: 1}
enrol:
  - {state: A, district: B, year: 2024, month: 1, count: 1}
assertion:
  - type: observation_count
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing_name",
			yaml: `
description: "no name"
bio: [{state: A, district: B, year: 2024, month: 1}]
demo: [{state: A, district: B, year: 2024, month: 1}]
enrol: [{state: A, district: B, year: 2024, month: 1}]
assertions: [{type: observation_count, count: 1}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing_bio",
			yaml: `
name: no_bio
description: "empty bio table"
bio: []
demo: [{state: A, district: B, year: 2024, month: 1}]
enrol: [{state: A, district: B, year: 2024, month: 1}]
assertions: [{type: observation_count, count: 1}]
`,
			wantErr: "bio table is required",
		},
		{
			name: "missing_assertions",
			yaml: `
name: no_assertions
description: "nothing validated"
bio: [{state: A, district: B, year: 2024, month: 1}]
demo: [{state: A, district: B, year: 2024, month: 1}]
enrol: [{state: A, district: B, year: 2024, month: 1}]
assertions: []
`,
			wantErr: "assertions list is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenarioFile(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAssertion(t *testing.T) {
	risk := 50.0

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{
			name:      "district_risk_missing_district",
			assertion: Assertion{Type: AssertDistrictRisk, State: "A", RiskPercent: &risk},
			wantErr:   "state and district are required",
		},
		{
			name:      "district_risk_missing_value",
			assertion: Assertion{Type: AssertDistrictRisk, State: "A", District: "B"},
			wantErr:   "risk_percent is required",
		},
		{
			name:      "state_risk_missing_state",
			assertion: Assertion{Type: AssertStateRisk, RiskPercent: &risk},
			wantErr:   "state is required",
		},
		{
			name:      "observation_missing_period",
			assertion: Assertion{Type: AssertObservation, State: "A", District: "B", Expect: map[string]float64{"risk_percent": 0}},
			wantErr:   "year and month are required",
		},
		{
			name:      "observation_missing_expect",
			assertion: Assertion{Type: AssertObservation, State: "A", District: "B", Year: 2024, Month: 1},
			wantErr:   "expect is required",
		},
		{
			name:      "count_not_positive",
			assertion: Assertion{Type: AssertObservationCount},
			wantErr:   "count must be positive",
		},
		{
			name:      "unknown_type",
			assertion: Assertion{Type: "trace_contains"},
			wantErr:   "unknown assertion type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAssertion(0, &tt.assertion)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScenarioInputs(t *testing.T) {
	s, err := LoadScenario("testdata/left_join_fill.yaml")
	require.NoError(t, err)

	in := s.Inputs()
	require.Len(t, in.Bio, 2)
	assert.Equal(t, "Dibrugarh", in.Bio[0].District)
	assert.Equal(t, int64(4), in.Bio[0].Bio517)

	require.Len(t, in.Demo, 1)
	assert.Equal(t, "Silchar", in.Demo[0].District)

	require.Len(t, in.Enrol, 1)
	assert.Equal(t, int64(10), in.Enrol[0].Count)
}

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
