package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding

	// Command palette
	Command key.Binding

	// Manual refresh
	Refresh key.Binding

	// Feed actions
	Delete  key.Binding
	Compose key.Binding

	// Category filters, in model.Selectors() order
	FilterAll     key.Binding
	FilterLike    key.Binding
	FilterComment key.Binding
	FilterFollow  key.Binding
	FilterPost    key.Binding
	FilterMessage key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Compose: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new event"),
		),
		FilterAll: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "all"),
		),
		FilterLike: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "likes"),
		),
		FilterComment: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "comments"),
		),
		FilterFollow: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "follows"),
		),
		FilterPost: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "posts"),
		),
		FilterMessage: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "messages"),
		),
	}
}

// Filters returns the filter bindings in selector order.
func (k *KeyMap) Filters() []key.Binding {
	return []key.Binding{
		k.FilterAll,
		k.FilterLike,
		k.FilterComment,
		k.FilterFollow,
		k.FilterPost,
		k.FilterMessage,
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Delete, k.Refresh,
		k.Compose, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Back, k.Quit},
		{k.Delete, k.Refresh, k.Compose, k.Command, k.Help},
		k.Filters(),
	}
}
