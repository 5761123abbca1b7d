package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/aris/internal/engine"
)

// Scenario defines a conformance test scenario.
// A scenario carries complete inline input tables and assertions on the
// scored result.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden
	// file name for snapshot comparison.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunID is an optional fixed run ID for deterministic output.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Bio, Demo and Enrol are the three inline input tables.
	Bio   []BioRowSpec   `yaml:"bio"`
	Demo  []DemoRowSpec  `yaml:"demo"`
	Enrol []EnrolRowSpec `yaml:"enrol"`

	// Assertions validate the scored result.
	// Supported types: district_risk, state_risk, observation, observation_count
	Assertions []Assertion `yaml:"assertions"`
}

// BioRowSpec is one biometric input row. Field names match the CSV
// column names so scenarios read like the tables they stand in for.
type BioRowSpec struct {
	State     string `yaml:"state"`
	District  string `yaml:"district"`
	Year      int    `yaml:"year"`
	Month     int    `yaml:"month"`
	Bio517    int64  `yaml:"bio_5_17"`
	Bio17Plus int64  `yaml:"bio_17_plus"`
}

// DemoRowSpec is one demographic input row.
type DemoRowSpec struct {
	State      string `yaml:"state"`
	District   string `yaml:"district"`
	Year       int    `yaml:"year"`
	Month      int    `yaml:"month"`
	Demo517    int64  `yaml:"demo_5_17"`
	Demo17Plus int64  `yaml:"demo_17_plus"`
}

// EnrolRowSpec is one enrolment input row. Count is the total
// enrolment figure the rate denominators are built from.
type EnrolRowSpec struct {
	State       string `yaml:"state"`
	District    string `yaml:"district"`
	Year        int    `yaml:"year"`
	Month       int    `yaml:"month"`
	Enrol05     int64  `yaml:"enrol_0_5"`
	Enrol517    int64  `yaml:"enrol_5_17"`
	Enrol18Plus int64  `yaml:"enrol_18_plus"`
	Count       int64  `yaml:"count"`
}

// Assertion validates one aspect of the scored result.
type Assertion struct {
	// Type specifies the assertion type:
	// - "district_risk": Check one district rollup row
	// - "state_risk": Check one state rollup row
	// - "observation": Check derived fields of one observation
	// - "observation_count": Check the total observation count
	Type string `yaml:"type"`

	// State and District select the row (district_risk, state_risk,
	// observation). State alone selects a state_risk row.
	State    string `yaml:"state,omitempty"`
	District string `yaml:"district,omitempty"`

	// Year and Month select the observation month (observation only).
	Year  int `yaml:"year,omitempty"`
	Month int `yaml:"month,omitempty"`

	// RiskPercent is the expected rollup value (district_risk, state_risk).
	RiskPercent *float64 `yaml:"risk_percent,omitempty"`

	// Expect maps derived field names to expected values (observation).
	// Subset match - only specified fields are validated.
	Expect map[string]float64 `yaml:"expect,omitempty"`

	// Count is the expected number of observations (observation_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertDistrictRisk     = "district_risk"
	AssertStateRisk        = "state_risk"
	AssertObservation      = "observation"
	AssertObservationCount = "observation_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// Inputs converts the scenario's inline tables into engine inputs.
func (s *Scenario) Inputs() engine.Inputs {
	in := engine.Inputs{
		Bio:   make([]engine.BioRow, len(s.Bio)),
		Demo:  make([]engine.DemoRow, len(s.Demo)),
		Enrol: make([]engine.EnrolRow, len(s.Enrol)),
	}
	for i, r := range s.Bio {
		in.Bio[i] = engine.BioRow{
			State: r.State, District: r.District, Year: r.Year, Month: r.Month,
			Bio517: r.Bio517, Bio17Plus: r.Bio17Plus,
		}
	}
	for i, r := range s.Demo {
		in.Demo[i] = engine.DemoRow{
			State: r.State, District: r.District, Year: r.Year, Month: r.Month,
			Demo517: r.Demo517, Demo17Plus: r.Demo17Plus,
		}
	}
	for i, r := range s.Enrol {
		in.Enrol[i] = engine.EnrolRow{
			State: r.State, District: r.District, Year: r.Year, Month: r.Month,
			Enrol05: r.Enrol05, Enrol517: r.Enrol517, Enrol18Plus: r.Enrol18Plus,
			Count: r.Count,
		}
	}
	return in
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Bio) == 0 {
		return fmt.Errorf("bio table is required and must be non-empty")
	}
	if len(s.Demo) == 0 {
		return fmt.Errorf("demo table is required and must be non-empty")
	}
	if len(s.Enrol) == 0 {
		return fmt.Errorf("enrol table is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertDistrictRisk:
		if a.State == "" || a.District == "" {
			return fmt.Errorf("assertions[%d]: state and district are required for district_risk", index)
		}
		if a.RiskPercent == nil {
			return fmt.Errorf("assertions[%d]: risk_percent is required for district_risk", index)
		}
	case AssertStateRisk:
		if a.State == "" {
			return fmt.Errorf("assertions[%d]: state is required for state_risk", index)
		}
		if a.RiskPercent == nil {
			return fmt.Errorf("assertions[%d]: risk_percent is required for state_risk", index)
		}
	case AssertObservation:
		if a.State == "" || a.District == "" {
			return fmt.Errorf("assertions[%d]: state and district are required for observation", index)
		}
		if a.Year == 0 || a.Month == 0 {
			return fmt.Errorf("assertions[%d]: year and month are required for observation", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for observation", index)
		}
	case AssertObservationCount:
		if a.Count <= 0 {
			return fmt.Errorf("assertions[%d]: count must be positive for observation_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
