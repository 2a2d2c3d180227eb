// Package eventform is the compose view for new activity events.
package eventform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/insyd/internal/event"
	"github.com/nhle/insyd/internal/model"
	"github.com/nhle/insyd/internal/theme"
)

// SubmitRequestMsg is sent when the user completes the form. The values
// have already been copied into the bound event.Form.
type SubmitRequestMsg struct{}

// CancelMsg is sent when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	category string
	target   string
	content  string
}

// Model is the Bubble Tea model for the compose view.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	state  *event.Form
	width  int
	height int

	// submitted is set once the form has completed and stays set until
	// Start rebuilds it.
	submitted bool
}

// New creates a compose view editing state.
func New(state *event.Form, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		state:  state,
		width:  width,
		height: height,
	}
}

// Start rebuilds the huh form from the bound event.Form. It is called when
// the view opens and after every submission, so the category and target
// survive while a successful send clears the message.
func (m *Model) Start() tea.Cmd {
	v := m.state.Values()
	m.fb.category = string(v.Category)
	m.fb.target = v.TargetUserID
	m.fb.content = v.Content
	m.form = m.buildForm()
	m.submitted = false
	return m.form.Init()
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.submitted || m.state.Pending() {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitted = true
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the compose view.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var status string
	switch {
	case m.state.Pending():
		status = theme.DimmedStyle.Render("Sending...")
	case m.state.Status() != "":
		status = theme.StatusLineStyle(m.state.Succeeded()).Render(m.state.Status())
	}

	content := titleStyle.Render("Send Event") + "\n" + m.form.View()
	if status != "" {
		content += "\n" + status
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	opts := make([]huh.Option[string], 0, len(model.Categories))
	for _, c := range model.Categories {
		opts = append(opts, huh.NewOption(c.Label(), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(opts...).
				Value(&m.fb.category),
			huh.NewInput().
				Title("Target User").
				Placeholder("user id").
				Value(&m.fb.target).
				Validate(validateRequired("Target user")),
			huh.NewInput().
				Title("Message").
				Placeholder("Optional message...").
				Value(&m.fb.content),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	m.state.SetCategory(model.Category(m.fb.category))
	m.state.SetTarget(strings.TrimSpace(m.fb.target))
	m.state.SetContent(m.fb.content)
	return func() tea.Msg { return SubmitRequestMsg{} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
