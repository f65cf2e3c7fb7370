package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

func TestSummarizeCmd_DefaultsToBrief(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "summarize", "1")

	require.NoError(t, err)
	assert.Equal(t, domain.SummaryBrief, ts.summary.lastType)
	assert.Contains(t, out, "brief summary of 1")
	assert.Contains(t, out, "A brief summary.")
	assert.NotContains(t, out, "(cached)")
}

func TestSummarizeCmd_TypeAndCached(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.summary.cached = true

	out, err := runCommand(t, "summarize", "1", "--type", "key_points")

	require.NoError(t, err)
	assert.Equal(t, domain.SummaryKeyPoints, ts.summary.lastType)
	assert.Contains(t, out, "key_points summary of 1 (cached)")
}

func TestSummarizeCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.summary.cached = true

	out, err := runCommand(t, "summarize", "1", "-t", "detailed", "--json")

	require.NoError(t, err)
	assert.JSONEq(t, `{"doc_ids":["1"],"summary_type":"detailed","summary":"A brief summary.","cached":true}`, out)
}

func TestSummarizeCmd_InvalidType(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.summary.err = domain.ErrInvalidSummaryType

	_, err := runCommand(t, "summarize", "1", "--type", "haiku")

	require.ErrorIs(t, err, domain.ErrInvalidSummaryType)
	assert.Equal(t, domain.SummaryType("haiku"), ts.summary.lastType)
}

func TestSummarizeManyCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "summarize-many", "--doc", "1", "--doc", "2", "--type", "detailed")

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ts.summary.lastDocIDs)
	assert.Equal(t, domain.SummaryDetailed, ts.summary.lastType)
	assert.Contains(t, out, "detailed summary of 1, 2")
}

func TestSummarizeManyCmd_RejectsArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "summarize-many", "1")

	assert.Error(t, err)
}

func TestSummaryTypeUsage(t *testing.T) {
	assert.Equal(t, "Summary type: brief, detailed, key_points", summaryTypeUsage())
}
