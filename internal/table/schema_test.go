package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aris/internal/engine"
)

func TestRequiredColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"state", "district", "year", "month", "bio_5_17", "bio_17_plus"},
		RequiredColumns(FamilyBiometric))
	assert.Equal(t,
		[]string{"state", "district", "year", "month", "demo_5_17", "demo_17_plus"},
		RequiredColumns(FamilyDemographic))
	assert.Equal(t,
		[]string{"state", "district", "year", "month", "enrol_0_5", "enrol_5_17", "enrol_18_plus", "enrolment_count"},
		RequiredColumns(FamilyEnrolment))
	assert.Nil(t, RequiredColumns(Family("bogus")))
}

func TestIndexHeader_CaseAndWhitespaceInsensitive(t *testing.T) {
	header := []string{" State ", "DISTRICT", "year", "Month", "bio_5_17", "bio_17_plus"}

	idx, err := indexHeader(header, FamilyBiometric)
	require.NoError(t, err)
	assert.Equal(t, 0, idx["state"])
	assert.Equal(t, 1, idx["district"])
}

func TestIndexHeader_DuplicateColumnKeepsFirst(t *testing.T) {
	header := []string{"state", "district", "year", "month", "bio_5_17", "bio_17_plus", "state"}

	idx, err := indexHeader(header, FamilyBiometric)
	require.NoError(t, err)
	assert.Equal(t, 0, idx["state"])
}

func TestIndexHeader_ReportsAllMissing(t *testing.T) {
	header := []string{"state", "year"}

	_, err := indexHeader(header, FamilyDemographic)
	require.Error(t, err)
	require.True(t, engine.IsSchemaError(err))

	var ee *engine.EngineError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, []string{"district", "month", "demo_5_17", "demo_17_plus"}, ee.Missing)
	assert.Equal(t, []string{"state", "year"}, ee.Present)
	assert.Equal(t, "demographic", ee.Family)
}
