// Package feedlist renders the filtered notification feed.
package feedlist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/insyd/internal/feed"
	"github.com/nhle/insyd/internal/keys"
	"github.com/nhle/insyd/internal/model"
	"github.com/nhle/insyd/internal/theme"
)

// DeleteRequestMsg is sent when the user asks to delete the selected row.
type DeleteRequestMsg struct {
	ID string
}

// RefreshRequestMsg is sent when the user asks for an immediate refresh.
type RefreshRequestMsg struct{}

// FilterChangedMsg is sent when the active selector changes.
type FilterChangedMsg struct {
	Selector model.FilterSelector
}

// Model is the feed view component.
type Model struct {
	list     list.Model
	keys     *keys.KeyMap
	tracker  *feed.Tracker
	selector model.FilterSelector
	items    []model.Notification
	loading  bool
	width    int
	height   int
}

// New creates a feed view. Rows whose id is in tracker show a busy marker.
func New(k *keys.KeyMap, tracker *feed.Tracker, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{tracker: tracker}, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{
		list:     l,
		keys:     k,
		tracker:  tracker,
		selector: model.FilterAll,
		loading:  true,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetFeed replaces the full feed and re-applies the active selector.
func (m *Model) SetFeed(items []model.Notification, loading bool) tea.Cmd {
	m.items = items
	m.loading = loading
	return m.project()
}

// Selector returns the active selector.
func (m Model) Selector() model.FilterSelector {
	return m.selector
}

// SetSelector changes the active selector.
func (m *Model) SetSelector(sel model.FilterSelector) tea.Cmd {
	m.selector = sel
	return m.project()
}

// Visible returns the notifications currently shown.
func (m Model) Visible() []model.Notification {
	out := make([]model.Notification, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if ni, ok := it.(NotificationItem); ok {
			out = append(out, ni.Notification)
		}
	}
	return out
}

// SelectedNotification returns the highlighted row.
func (m Model) SelectedNotification() (model.Notification, bool) {
	ni, ok := m.list.SelectedItem().(NotificationItem)
	if !ok {
		return model.Notification{}, false
	}
	return ni.Notification, true
}

func (m *Model) project() tea.Cmd {
	visible := feed.Project(m.items, m.selector)
	items := make([]list.Item, len(visible))
	for i, n := range visible {
		items[i] = NotificationItem{Notification: n}
	}
	return m.list.SetItems(items)
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	for i, b := range m.keys.Filters() {
		if key.Matches(msg, b) {
			sel := model.Selectors()[i]
			cmd := m.SetSelector(sel)
			return m, tea.Batch(cmd, func() tea.Msg { return FilterChangedMsg{Selector: sel} })
		}
	}

	switch {
	case key.Matches(msg, m.keys.Delete):
		n, ok := m.SelectedNotification()
		if !ok || m.tracker.Has(n.ID) {
			return m, nil
		}
		return m, func() tea.Msg { return DeleteRequestMsg{ID: n.ID} }

	case key.Matches(msg, m.keys.Refresh):
		return m, func() tea.Msg { return RefreshRequestMsg{} }
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the feed view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows the loading or empty text.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.loading:
		return style.Render("Loading notifications...")
	case m.selector != model.FilterAll && len(m.items) > 0:
		return style.Render("No " + m.selector.Label() + " yet.\nPress 0 to show everything.")
	default:
		return style.Render("No notifications yet.\n\nPress n to send an event.")
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
