package app

import (
	tea "github.com/charmbracelet/bubbletea"
)

// deleteResultMsg is sent after a deletion settles.
type deleteResultMsg struct {
	id  string
	err error
}

// submitResultMsg is sent after an event submission settles.
type submitResultMsg struct {
	status string
	err    error
}

// deleteNotification runs a confirmed deletion bound to the session.
func (m Model) deleteNotification(id string) tea.Cmd {
	ctx := m.ctx
	c := m.coordinator
	return func() tea.Msg {
		err := c.DeleteNotification(ctx, id)
		return deleteResultMsg{id: id, err: err}
	}
}

// submitEvent sends the compose form bound to the session.
func (m Model) submitEvent() tea.Cmd {
	ctx := m.ctx
	s := m.submitter
	form := m.form
	return func() tea.Msg {
		status, err := s.Submit(ctx, form)
		return submitResultMsg{status: status, err: err}
	}
}
