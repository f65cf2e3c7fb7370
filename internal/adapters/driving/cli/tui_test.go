package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui"
	"github.com/custodia-labs/lexrag/internal/adapters/driving/tui/messages"
)

func stubTUI(t *testing.T) *[]*tui.App {
	t.Helper()
	var started []*tui.App
	orig := startTUI
	startTUI = func(app *tui.App) error {
		started = append(started, app)
		return nil
	}
	t.Cleanup(func() { startTUI = orig })
	return &started
}

func TestTUICmd_Starts(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	started := stubTUI(t)

	_, err := runCommand(t, "tui", "--case", "case-7")

	require.NoError(t, err)
	require.Len(t, *started, 1)
	assert.Equal(t, messages.ViewMenu, (*started)[0].CurrentView())
}

func TestTUICmd_MissingServices(t *testing.T) {
	started := stubTUI(t)
	SetServices(Services{})

	_, err := runCommand(t, "tui")

	assert.ErrorIs(t, err, tui.ErrMissingDocumentService)
	assert.Empty(t, *started)
}

func TestTUICmd_RejectsArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	stubTUI(t)

	_, err := runCommand(t, "tui", "extra")

	assert.Error(t, err)
}
