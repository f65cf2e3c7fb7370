package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexExistsCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.index.indexed["1"] = true

	out, err := runCommand(t, "index-exists", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Index exists for 1")

	out, err = runCommand(t, "index-exists", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "No index for 2")
}

func TestIndexExistsCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.index.indexed["1"] = true

	out, err := runCommand(t, "index-exists", "1", "--json")

	require.NoError(t, err)
	assert.JSONEq(t, `{"doc_id":"1","exists":true}`, out)
}

func TestIndexDeleteCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.index.indexed["1"] = true

	out, err := runCommand(t, "index-delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted index for 1")

	out, err = runCommand(t, "index-delete", "1", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"doc_id":"1","deleted":false}`, out)
}

func TestIndexDeleteCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.index.err = errors.New("store offline")

	_, err := runCommand(t, "index-delete", "1")

	assert.EqualError(t, err, "store offline")
}
