package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestFilterKeysFollowSelectorOrder(t *testing.T) {
	k := DefaultKeyMap()
	for i, b := range k.Filters() {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{rune('0' + i)}}
		assert.True(t, key.Matches(msg, b), "binding %d", i)
	}
}

func TestFullHelpCoversFilters(t *testing.T) {
	k := DefaultKeyMap()
	groups := k.FullHelp()
	assert.Len(t, groups[len(groups)-1], 6)
}
