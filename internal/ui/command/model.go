// Package command is the ":" prompt for feed actions typed by name.
package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/insyd/internal/model"
	"github.com/nhle/insyd/internal/theme"
)

// Action names a palette command.
type Action int

const (
	ActionRefresh Action = iota
	ActionFilter
	ActionCompose
	ActionDelete
	ActionHelp
	ActionQuit
)

// CommandMsg is emitted when the user executes a valid command.
type CommandMsg struct {
	Action Action
	// Filter is set for ActionFilter.
	Filter model.FilterSelector
}

// CancelMsg is emitted when the user leaves the palette without running
// anything.
type CancelMsg struct{}

// Parse turns palette input into a command.
func Parse(input string) (CommandMsg, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return CommandMsg{}, fmt.Errorf("empty command")
	}

	switch fields[0] {
	case "refresh", "sync":
		return CommandMsg{Action: ActionRefresh}, nil
	case "filter", "show":
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}
		// Accept plurals as shown on the filter bar.
		sel, err := model.ParseFilter(strings.TrimSuffix(arg, "s"))
		if err != nil {
			return CommandMsg{}, err
		}
		return CommandMsg{Action: ActionFilter, Filter: sel}, nil
	case "new", "compose", "send":
		return CommandMsg{Action: ActionCompose}, nil
	case "delete", "rm":
		return CommandMsg{Action: ActionDelete}, nil
	case "help":
		return CommandMsg{Action: ActionHelp}, nil
	case "quit", "q":
		return CommandMsg{Action: ActionQuit}, nil
	default:
		return CommandMsg{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	err    error
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "refresh | filter <type> | new | delete | help | quit"
	ti.Prompt = ": "
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			input := m.input.Value()
			if strings.TrimSpace(input) == "" {
				return m, func() tea.Msg { return CancelMsg{} }
			}
			cmd, err := Parse(input)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.input.Reset()
			return m, func() tea.Msg { return cmd }

		case "esc":
			m.err = nil
			m.input.Reset()
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	rows := []string{titleStyle.Render("Command"), m.input.View()}
	if m.err != nil {
		rows = append(rows, theme.ErrorStyle.Render(m.err.Error()))
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
