package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/roach88/aris/internal/engine"
)

// ReadBio reads a cleaned biometric CSV file into rows for the engine.
func ReadBio(path string) ([]engine.BioRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open biometric table: %w", err)
	}
	defer f.Close()
	return DecodeBio(f)
}

// ReadDemo reads a cleaned demographic CSV file into rows for the engine.
func ReadDemo(path string) ([]engine.DemoRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open demographic table: %w", err)
	}
	defer f.Close()
	return DecodeDemo(f)
}

// ReadEnrol reads a cleaned enrolment CSV file into rows for the engine.
func ReadEnrol(path string) ([]engine.EnrolRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open enrolment table: %w", err)
	}
	defer f.Close()
	return DecodeEnrol(f)
}

// ReadInputs loads all three family tables.
func ReadInputs(bioPath, demoPath, enrolPath string) (engine.Inputs, error) {
	bio, err := ReadBio(bioPath)
	if err != nil {
		return engine.Inputs{}, err
	}
	demo, err := ReadDemo(demoPath)
	if err != nil {
		return engine.Inputs{}, err
	}
	enrol, err := ReadEnrol(enrolPath)
	if err != nil {
		return engine.Inputs{}, err
	}
	return engine.Inputs{Bio: bio, Demo: demo, Enrol: enrol}, nil
}

// DecodeBio decodes biometric CSV from a reader.
func DecodeBio(r io.Reader) ([]engine.BioRow, error) {
	idx, records, err := decodeTable(r, FamilyBiometric)
	if err != nil {
		return nil, err
	}

	rows := make([]engine.BioRow, 0, len(records))
	for n, rec := range records {
		row := engine.BioRow{
			State:    NormalizeRegionName(field(rec, idx, colState)),
			District: NormalizeRegionName(field(rec, idx, colDistrict)),
		}
		if row.Year, err = intField(rec, idx, colYear, n); err != nil {
			return nil, fmt.Errorf("biometric table: %w", err)
		}
		if row.Month, err = intField(rec, idx, colMonth, n); err != nil {
			return nil, fmt.Errorf("biometric table: %w", err)
		}
		if row.Bio517, err = countField(rec, idx, colBio517, n); err != nil {
			return nil, fmt.Errorf("biometric table: %w", err)
		}
		if row.Bio17Plus, err = countField(rec, idx, colBio17Plus, n); err != nil {
			return nil, fmt.Errorf("biometric table: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DecodeDemo decodes demographic CSV from a reader.
func DecodeDemo(r io.Reader) ([]engine.DemoRow, error) {
	idx, records, err := decodeTable(r, FamilyDemographic)
	if err != nil {
		return nil, err
	}

	rows := make([]engine.DemoRow, 0, len(records))
	for n, rec := range records {
		row := engine.DemoRow{
			State:    NormalizeRegionName(field(rec, idx, colState)),
			District: NormalizeRegionName(field(rec, idx, colDistrict)),
		}
		if row.Year, err = intField(rec, idx, colYear, n); err != nil {
			return nil, fmt.Errorf("demographic table: %w", err)
		}
		if row.Month, err = intField(rec, idx, colMonth, n); err != nil {
			return nil, fmt.Errorf("demographic table: %w", err)
		}
		if row.Demo517, err = countField(rec, idx, colDemo517, n); err != nil {
			return nil, fmt.Errorf("demographic table: %w", err)
		}
		if row.Demo17Plus, err = countField(rec, idx, colDemo17Plus, n); err != nil {
			return nil, fmt.Errorf("demographic table: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DecodeEnrol decodes enrolment CSV from a reader.
func DecodeEnrol(r io.Reader) ([]engine.EnrolRow, error) {
	idx, records, err := decodeTable(r, FamilyEnrolment)
	if err != nil {
		return nil, err
	}

	rows := make([]engine.EnrolRow, 0, len(records))
	for n, rec := range records {
		row := engine.EnrolRow{
			State:    NormalizeRegionName(field(rec, idx, colState)),
			District: NormalizeRegionName(field(rec, idx, colDistrict)),
		}
		if row.Year, err = intField(rec, idx, colYear, n); err != nil {
			return nil, fmt.Errorf("enrolment table: %w", err)
		}
		if row.Month, err = intField(rec, idx, colMonth, n); err != nil {
			return nil, fmt.Errorf("enrolment table: %w", err)
		}
		if row.Enrol05, err = countField(rec, idx, colEnrol05, n); err != nil {
			return nil, fmt.Errorf("enrolment table: %w", err)
		}
		if row.Enrol517, err = countField(rec, idx, colEnrol517, n); err != nil {
			return nil, fmt.Errorf("enrolment table: %w", err)
		}
		if row.Enrol18Plus, err = countField(rec, idx, colEnrol18, n); err != nil {
			return nil, fmt.Errorf("enrolment table: %w", err)
		}
		if row.Count, err = countField(rec, idx, colEnrolCount, n); err != nil {
			return nil, fmt.Errorf("enrolment table: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ValidateFile checks only the header of a CSV file against a family's
// required column set. Used by the validate command for fast feedback
// without decoding the whole table.
func ValidateFile(path string, f Family) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s table: %w", f, err)
	}
	defer file.Close()

	header, err := csv.NewReader(file).Read()
	if err == io.EOF {
		return engine.NewSchemaError(string(f), RequiredColumns(f), nil)
	}
	if err != nil {
		return fmt.Errorf("read %s header: %w", f, err)
	}

	_, err = indexHeader(header, f)
	return err
}

// decodeTable reads all CSV records and verifies the header against
// the family schema. Returns the column index and the data records.
func decodeTable(r io.Reader, f Family) (columnIndex, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows handled per field

	header, err := cr.Read()
	if err == io.EOF {
		// A file with no header has every required column missing.
		return nil, nil, engine.NewSchemaError(string(f), RequiredColumns(f), nil)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s header: %w", f, err)
	}

	idx, err := indexHeader(header, f)
	if err != nil {
		return nil, nil, err
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s records: %w", f, err)
	}

	return idx, records, nil
}

// field returns the named column's raw value, or "" when the record is
// too short.
func field(rec []string, idx columnIndex, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// intField parses a required integer key column. Empty is not allowed
// for year/month: a record that cannot be placed in time is a decode
// error, not silent data loss.
func intField(rec []string, idx columnIndex, col string, rowNum int) (int, error) {
	raw := strings.TrimSpace(field(rec, idx, col))
	if raw == "" {
		return 0, fmt.Errorf("row %d: column %q is empty", rowNum+1, col)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("row %d: column %q: %w", rowNum+1, col, err)
	}
	return v, nil
}

// countField parses a count column. An empty cell counts as zero -
// the engine's rate formulas are defined to tolerate zero inputs -
// but a non-numeric value is a decode error.
func countField(rec []string, idx columnIndex, col string, rowNum int) (int64, error) {
	raw := strings.TrimSpace(field(rec, idx, col))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: column %q: %w", rowNum+1, col, err)
	}
	return v, nil
}
