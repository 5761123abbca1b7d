// Package harness provides conformance testing for the risk scoring engine.
//
// The harness loads scenarios describing complete input tables inline,
// runs the engine over them, and validates the scored result against
// declared assertions and golden snapshots.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	bio:
//	  - {state: Kerala, district: Kochi, year: 2024, month: 1, bio_5_17: 5, bio_17_plus: 2}
//	demo:
//	  - {state: Kerala, district: Kochi, year: 2024, month: 1, demo_5_17: 0, demo_17_plus: 0}
//	enrol:
//	  - {state: Kerala, district: Kochi, year: 2024, month: 1, count: 10}
//	assertions:
//	  - type: district_risk
//	    state: Kerala
//	    district: Kochi
//	    risk_percent: 100
//	  - type: observation_count
//	    count: 1
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - district_risk: Verifies one row of the district rollup
//   - state_risk: Verifies one row of the state rollup
//   - observation: Verifies derived fields of one region-month observation
//   - observation_count: Verifies the total number of observations
//
// # Deterministic Testing
//
// All scenarios execute with a fixed run ID generator so repeated runs
// produce byte-identical output, which is what the golden snapshot
// comparison depends on. The snapshot is the pair of ranking CSVs the
// score command would write, so golden files double as documentation of
// the exact published output for each scenario.
package harness
