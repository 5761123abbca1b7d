package table

import (
	"strings"

	"github.com/roach88/aris/internal/engine"
)

// Family identifies one of the three canonical input tables.
type Family string

const (
	FamilyBiometric   Family = "biometric"
	FamilyDemographic Family = "demographic"
	FamilyEnrolment   Family = "enrolment"
)

// Families lists the three input families in pipeline order.
var Families = []Family{FamilyBiometric, FamilyDemographic, FamilyEnrolment}

// Canonical column names shared by all families.
const (
	colState    = "state"
	colDistrict = "district"
	colYear     = "year"
	colMonth    = "month"
)

// Family-specific count columns.
const (
	colBio517     = "bio_5_17"
	colBio17Plus  = "bio_17_plus"
	colDemo517    = "demo_5_17"
	colDemo17Plus = "demo_17_plus"
	colEnrol05    = "enrol_0_5"
	colEnrol517   = "enrol_5_17"
	colEnrol18    = "enrol_18_plus"
	colEnrolCount = "enrolment_count"
)

// RequiredColumns returns the canonical column set for a family.
// The cleaning stage guarantees these names; the table decoder only
// verifies them.
func RequiredColumns(f Family) []string {
	key := []string{colState, colDistrict, colYear, colMonth}
	switch f {
	case FamilyBiometric:
		return append(key, colBio517, colBio17Plus)
	case FamilyDemographic:
		return append(key, colDemo517, colDemo17Plus)
	case FamilyEnrolment:
		return append(key, colEnrol05, colEnrol517, colEnrol18, colEnrolCount)
	default:
		return nil
	}
}

// columnIndex maps canonical column names to their position in a
// header row. Header cells are matched case-insensitively with
// surrounding whitespace stripped.
type columnIndex map[string]int

// indexHeader builds a columnIndex and verifies the family's required
// columns are all present. A missing column is fatal: it indicates an
// upstream contract violation that must not be silently masked.
func indexHeader(header []string, f Family) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	present := make([]string, 0, len(header))
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		present = append(present, name)
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns(f) {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, engine.NewSchemaError(string(f), missing, present)
	}

	return idx, nil
}
