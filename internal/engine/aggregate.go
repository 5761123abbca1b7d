package engine

import "log/slog"

// The aggregation stage collapses each raw family table to exactly one
// accumulator per (state, district, year, month). Duplicate raw rows
// for the same key are summed, never retained as separate rows.
//
// Rows with an empty region key cannot be attributed to any
// administrative unit and are dropped silently. The drop is data loss,
// not an error: it is counted, logged, and surfaced in Result.DroppedRows.

type bioTotals struct {
	bio517    int64
	bio17Plus int64
}

type demoTotals struct {
	demo517    int64
	demo17Plus int64
}

// aggregateBio groups biometric rows by key and sums both age bands.
// Returns the aggregate map and the number of dropped rows.
func aggregateBio(rows []BioRow) (map[Key]bioTotals, int) {
	agg := make(map[Key]bioTotals)
	dropped := 0

	for _, row := range rows {
		if row.State == "" || row.District == "" {
			dropped++
			continue
		}
		k := Key{State: row.State, District: row.District, Year: row.Year, Month: row.Month}
		t := agg[k]
		t.bio517 += row.Bio517
		t.bio17Plus += row.Bio17Plus
		agg[k] = t
	}

	if dropped > 0 {
		slog.Warn("dropped rows with missing region key",
			"family", "biometric",
			"dropped", dropped,
		)
	}

	return agg, dropped
}

// aggregateDemo groups demographic rows by key and sums both age bands.
func aggregateDemo(rows []DemoRow) (map[Key]demoTotals, int) {
	agg := make(map[Key]demoTotals)
	dropped := 0

	for _, row := range rows {
		if row.State == "" || row.District == "" {
			dropped++
			continue
		}
		k := Key{State: row.State, District: row.District, Year: row.Year, Month: row.Month}
		t := agg[k]
		t.demo517 += row.Demo517
		t.demo17Plus += row.Demo17Plus
		agg[k] = t
	}

	if dropped > 0 {
		slog.Warn("dropped rows with missing region key",
			"family", "demographic",
			"dropped", dropped,
		)
	}

	return agg, dropped
}

// aggregateEnrol groups enrolment rows by key and sums the total
// enrolment count. The age-band columns ride along in the input for
// schema completeness but only the total participates in scoring.
func aggregateEnrol(rows []EnrolRow) (map[Key]int64, int) {
	agg := make(map[Key]int64)
	dropped := 0

	for _, row := range rows {
		if row.State == "" || row.District == "" {
			dropped++
			continue
		}
		k := Key{State: row.State, District: row.District, Year: row.Year, Month: row.Month}
		agg[k] += row.Count
	}

	if dropped > 0 {
		slog.Warn("dropped rows with missing region key",
			"family", "enrolment",
			"dropped", dropped,
		)
	}

	return agg, dropped
}
