package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aris/internal/store"
)

const (
	validBioCSV = `state,district,year,month,bio_5_17,bio_17_plus
Kerala,Kochi,2024,1,5,2
Karnataka,Bengaluru,2024,1,1,1
`
	validDemoCSV = `state,district,year,month,demo_5_17,demo_17_plus
Kerala,Kochi,2024,1,0,0
Karnataka,Bengaluru,2024,1,0,0
`
	validEnrolCSV = `state,district,year,month,enrol_0_5,enrol_5_17,enrol_18_plus,enrolment_count
Kerala,Kochi,2024,1,0,0,0,10
Karnataka,Bengaluru,2024,1,0,0,0,10
`
)

// writeInputFiles writes the three valid fixture tables into dir and
// returns their paths.
func writeInputFiles(t *testing.T, dir string) (bio, demo, enrol string) {
	t.Helper()
	bio = writeFile(t, dir, "bio.csv", validBioCSV)
	demo = writeFile(t, dir, "demo.csv", validDemoCSV)
	enrol = writeFile(t, dir, "enrol.csv", validEnrolCSV)
	return bio, demo, enrol
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// executeCommand runs the root command with args, capturing stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestScore_WritesRankings(t *testing.T) {
	dir := t.TempDir()
	bio, demo, enrol := writeInputFiles(t, dir)
	outDir := filepath.Join(dir, "out")

	out, err := executeCommand(t,
		"score", "--bio", bio, "--demo", demo, "--enrol", enrol, "--out-dir", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Rankings written to")

	districts, err := os.ReadFile(filepath.Join(outDir, "district_risk.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"state,district,risk_percent\nKerala,Kochi,100.00\nKarnataka,Bengaluru,0.00\n",
		string(districts))

	states, err := os.ReadFile(filepath.Join(outDir, "state_risk.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"state,risk_percent\nKerala,100.00\nKarnataka,0.00\n",
		string(states))
}

func TestScore_JSONSummary(t *testing.T) {
	dir := t.TempDir()
	bio, demo, enrol := writeInputFiles(t, dir)
	outDir := filepath.Join(dir, "out")

	out, err := executeCommand(t,
		"--format", "json",
		"score", "--bio", bio, "--demo", demo, "--enrol", enrol, "--out-dir", outDir)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["run_id"])
	assert.Equal(t, float64(2), data["observations"])
	assert.Equal(t, float64(2), data["districts"])
	assert.Equal(t, float64(2), data["states"])
}

func TestScore_PersistsToDatabase(t *testing.T) {
	dir := t.TempDir()
	bio, demo, enrol := writeInputFiles(t, dir)
	outDir := filepath.Join(dir, "out")
	dbPath := filepath.Join(dir, "aris.db")

	_, err := executeCommand(t,
		"score", "--bio", bio, "--demo", demo, "--enrol", enrol,
		"--out-dir", outDir, "--db", dbPath)
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	info, err := st.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, info.Observations)

	districts, err := st.DistrictRisk(context.Background(), info.ID, 0)
	require.NoError(t, err)
	require.Len(t, districts, 2)
	assert.Equal(t, "Kochi", districts[0].District)
}

func TestScore_MissingFileIsCommandError(t *testing.T) {
	dir := t.TempDir()
	_, demo, enrol := writeInputFiles(t, dir)

	_, err := executeCommand(t,
		"score", "--bio", filepath.Join(dir, "nope.csv"),
		"--demo", demo, "--enrol", enrol, "--out-dir", filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestScore_SchemaViolationIsDataFailure(t *testing.T) {
	dir := t.TempDir()
	_, demo, enrol := writeInputFiles(t, dir)
	badBio := writeFile(t, dir, "bad_bio.csv", "state,year,month\nKerala,2024,1\n")

	out, err := executeCommand(t,
		"--format", "json",
		"score", "--bio", badBio, "--demo", demo, "--enrol", enrol,
		"--out-dir", filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeSchema, resp.Error.Code)
}

func TestScore_EmptyInputIsDataFailure(t *testing.T) {
	dir := t.TempDir()
	_, demo, enrol := writeInputFiles(t, dir)
	emptyBio := writeFile(t, dir, "empty_bio.csv",
		"state,district,year,month,bio_5_17,bio_17_plus\n")

	out, err := executeCommand(t,
		"--format", "json",
		"score", "--bio", emptyBio, "--demo", demo, "--enrol", enrol,
		"--out-dir", filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeEmptyInput, resp.Error.Code)
}

func TestScore_FailureLeavesNoOutputs(t *testing.T) {
	dir := t.TempDir()
	_, demo, enrol := writeInputFiles(t, dir)
	emptyBio := writeFile(t, dir, "empty_bio.csv",
		"state,district,year,month,bio_5_17,bio_17_plus\n")
	outDir := filepath.Join(dir, "out")

	_, err := executeCommand(t,
		"score", "--bio", emptyBio, "--demo", demo, "--enrol", enrol, "--out-dir", outDir)
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(outDir, "district_risk.csv"))
	assert.True(t, os.IsNotExist(err), "no rankings may be written for a failed run")
}
