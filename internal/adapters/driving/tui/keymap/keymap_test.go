package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("esc", km.Back))
	assert.True(t, Matches("k", km.Up))
	assert.True(t, Matches("down", km.Down))
	assert.True(t, Matches(" ", km.Toggle))
	assert.True(t, Matches("a", km.Ask))
	assert.True(t, Matches("s", km.Summarize))
	assert.True(t, Matches("tab", km.NextType))
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"bound key", "d", true},
		{"unbound key", "z", false},
		{"empty key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.key, km.Delete))
		})
	}
}

func TestKeyMap_HelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 2)
	assert.Len(t, km.DocumentsHelp(), 5)
	assert.Len(t, km.AskHelp(), 2)
	assert.Len(t, km.SummaryHelp(), 4)
	assert.Len(t, km.FullHelp(), 3)
	assert.Equal(t, "space", km.Toggle.Help().Key)
}
