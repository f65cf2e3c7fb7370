package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

func TestUploadCmd_Success(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "upload", "/tmp/in/ruling.pdf", "--case", "case-7")

	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/in/ruling.pdf"}, ts.document.uploads)
	assert.Contains(t, out, "Uploaded ruling.pdf")
	assert.Contains(t, out, "Document ID: doc-1")
	assert.Contains(t, out, "Case:        case-7")
}

func TestUploadCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "upload", "ruling.pdf", "--json")
	require.NoError(t, err)

	var view documentView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "doc-1", view.ID)
	assert.Equal(t, "ruling.pdf", view.Filename)
	assert.Equal(t, "2024-03-01 10:00:00", view.UploadedAt)
	assert.Empty(t, view.CaseID)
}

func TestUploadCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.document.uploadErr = domain.ErrUnsupportedFileType

	_, err := runCommand(t, "upload", "sheet.xlsx")

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestUploadCmd_RequiresFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "upload")

	assert.Error(t, err)
}

func TestIndexCmd_Success(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "index", "/data/brief.docx", "--doc-id", "42", "--case", "c1")

	require.NoError(t, err)
	assert.Equal(t, []string{"/data/brief.docx|42|c1"}, ts.ingest.calls)
	assert.Contains(t, out, "Indexed brief.docx as 42")
}

func TestIndexCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCommand(t, "index", "a.txt", "-d", "7", "--json")

	require.NoError(t, err)
	assert.JSONEq(t, `{"doc_id":"7","indexed":true}`, out)
}

func TestIndexCmd_RequiresDocID(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := runCommand(t, "index", "a.txt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "doc-id")
	assert.Empty(t, ts.ingest.calls)
}

func TestIndexCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.err = domain.ErrEmptyExtraction

	_, err := runCommand(t, "index", "blank.pdf", "--doc-id", "1")

	assert.ErrorIs(t, err, domain.ErrEmptyExtraction)
}
