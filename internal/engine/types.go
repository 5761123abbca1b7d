package engine

// Key identifies one region-month observation.
// State and district together form the region key; year and month pin
// the observation to a single reporting period.
type Key struct {
	State    string
	District string
	Year     int
	Month    int
}

// RegionKey is the (state, district) pair identifying an administrative unit.
type RegionKey struct {
	State    string
	District string
}

// Region returns the region portion of the key.
func (k Key) Region() RegionKey {
	return RegionKey{State: k.State, District: k.District}
}

// BioRow is one raw biometric-update record from the cleaned biometric
// table. Multiple rows may share the same key; the aggregator sums them.
type BioRow struct {
	State     string
	District  string
	Year      int
	Month     int
	Bio517    int64 // biometric updates, ages 5-17
	Bio17Plus int64 // biometric updates, ages 17+
}

// DemoRow is one raw demographic-update record from the cleaned
// demographic table.
type DemoRow struct {
	State      string
	District   string
	Year       int
	Month      int
	Demo517    int64 // demographic updates, ages 5-17
	Demo17Plus int64 // demographic updates, ages 17+
}

// EnrolRow is one raw enrolment record from the cleaned enrolment table.
// Count is the pre-computed total across the three age bands.
type EnrolRow struct {
	State       string
	District    string
	Year        int
	Month       int
	Enrol05     int64
	Enrol517    int64
	Enrol18Plus int64
	Count       int64
}

// Inputs holds the three canonical metric tables consumed by one run.
// The cleaning stage upstream guarantees column shape; the engine only
// guarantees missing-value handling.
type Inputs struct {
	Bio   []BioRow
	Demo  []DemoRow
	Enrol []EnrolRow
}

// RegionMonth is the central merged entity: exactly one exists per
// (state, district, year, month) after aggregation.
//
// The integer count fields come from the inputs (zero-filled where the
// left join found no match). The float fields are derived and are never
// read from input tables.
type RegionMonth struct {
	State    string
	District string
	Year     int
	Month    int

	Bio517     int64
	Bio17Plus  int64
	Demo517    int64
	Demo17Plus int64
	Enrolment  int64

	TotalBioUpdates  float64
	TotalDemoUpdates float64
	BioUpdateRate    float64
	DemoUpdateRate   float64
	BioAgeSkew       float64
	DemoAgeSkew      float64
	BioMoMChange     float64
	DemoMoMChange    float64
	RiskSignal       float64
	RiskPercent      float64 // percentile rank in [0, 100], 2 decimals
}

// Key returns the four-part identity of the observation.
func (r *RegionMonth) Key() Key {
	return Key{State: r.State, District: r.District, Year: r.Year, Month: r.Month}
}

// DistrictRisk is the district-level rollup: the arithmetic mean of
// RiskPercent across the district's region-month observations.
type DistrictRisk struct {
	State       string
	District    string
	RiskPercent float64
}

// StateRisk is the state-level rollup: the arithmetic mean of the
// state's district means. Mean-of-means, deliberately: a state with
// many low-volume districts is weighted equally per district, not per
// observed month.
type StateRisk struct {
	State       string
	RiskPercent float64
}

// Result is the complete output of one engine run. Observations carry
// the full derived record per region-month; Districts and States are
// the two rollup tables exposed downstream, both sorted by RiskPercent
// descending.
type Result struct {
	RunID        string
	Observations []RegionMonth
	Districts    []DistrictRisk
	States       []StateRisk

	// DroppedRows counts input rows discarded for a missing region key,
	// summed across the three families. Data loss, not an error.
	DroppedRows int
}
