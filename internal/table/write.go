package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/roach88/aris/internal/engine"
)

// Output file names, fixed so the dashboard collaborator can find them.
const (
	DistrictRiskFile = "district_risk.csv"
	StateRiskFile    = "state_risk.csv"
)

// EncodeDistrictRisk writes the district risk table as CSV. Rows are
// written in the order given; the engine already sorts them by
// risk_percent descending.
func EncodeDistrictRisk(w io.Writer, rows []engine.DistrictRisk) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{colState, colDistrict, "risk_percent"}); err != nil {
		return err
	}
	for _, d := range rows {
		if err := cw.Write([]string{d.State, d.District, formatPercent(d.RiskPercent)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeStateRisk writes the state risk table as CSV.
func EncodeStateRisk(w io.Writer, rows []engine.StateRisk) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{colState, "risk_percent"}); err != nil {
		return err
	}
	for _, s := range rows {
		if err := cw.Write([]string{s.State, formatPercent(s.RiskPercent)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteOutputs writes both rollup tables to dir atomically and returns
// their paths.
//
// Each table is encoded to a temp file in the same directory first,
// and the temp files are renamed into place only after both encodes
// succeeded. A run that fails mid-write leaves no partial table
// behind; a run that succeeds fully replaces any previous outputs.
func WriteOutputs(dir string, res *engine.Result) (districtPath, statePath string, err error) {
	districtPath = filepath.Join(dir, DistrictRiskFile)
	statePath = filepath.Join(dir, StateRiskFile)

	districtTmp, err := encodeToTemp(dir, DistrictRiskFile, func(w io.Writer) error {
		return EncodeDistrictRisk(w, res.Districts)
	})
	if err != nil {
		return "", "", fmt.Errorf("write district risk: %w", err)
	}

	stateTmp, err := encodeToTemp(dir, StateRiskFile, func(w io.Writer) error {
		return EncodeStateRisk(w, res.States)
	})
	if err != nil {
		os.Remove(districtTmp)
		return "", "", fmt.Errorf("write state risk: %w", err)
	}

	if err := os.Rename(districtTmp, districtPath); err != nil {
		os.Remove(districtTmp)
		os.Remove(stateTmp)
		return "", "", fmt.Errorf("write district risk: %w", err)
	}
	if err := os.Rename(stateTmp, statePath); err != nil {
		os.Remove(stateTmp)
		return "", "", fmt.Errorf("write state risk: %w", err)
	}

	return districtPath, statePath, nil
}

// encodeToTemp encodes a table into a temp file next to its final
// location and returns the temp path.
func encodeToTemp(dir, name string, encode func(io.Writer) error) (string, error) {
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return "", err
	}

	if err := encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

// formatPercent renders a risk percentage with 2 decimal places,
// matching the rounding applied by the scorer.
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
