package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/nhle/insyd/internal/event"
	"github.com/nhle/insyd/internal/feed"
	"github.com/nhle/insyd/internal/keys"
	"github.com/nhle/insyd/internal/logging"
	"github.com/nhle/insyd/internal/model"
	"github.com/nhle/insyd/internal/mutation"
	appsync "github.com/nhle/insyd/internal/sync"
	"github.com/nhle/insyd/internal/theme"
	"github.com/nhle/insyd/internal/ui"
	"github.com/nhle/insyd/internal/ui/command"
	"github.com/nhle/insyd/internal/ui/eventform"
	"github.com/nhle/insyd/internal/ui/feedlist"
	helpview "github.com/nhle/insyd/internal/ui/help"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewFeed ViewState = iota
	ViewCompose
	ViewHelp
	ViewCommand
)

// Deps are the core components the UI drives.
type Deps struct {
	Config      *model.AppConfig
	Feed        *feed.Store
	Poller      *appsync.Poller
	Coordinator *mutation.Coordinator
	Submitter   *event.Submitter
	Log         logrus.FieldLogger
}

// Model is the root Bubble Tea model. It owns the session context; every
// request the UI starts is bound to it and quitting cancels it.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	ready        bool

	feedStore   *feed.Store
	poller      *appsync.Poller
	coordinator *mutation.Coordinator
	submitter   *event.Submitter
	form        *event.Form
	log         logrus.FieldLogger

	feedList feedlist.Model
	compose  eventform.Model
	helpView helpview.Model
	palette  command.Model
	spinner  spinner.Model
	spinning bool

	lastSync appsync.SyncResultMsg
}

// New creates the root model.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()
	log := d.Log
	if log == nil {
		log = logging.Discard()
	}

	ctx, cancel := context.WithCancel(context.Background())
	form := event.NewForm(model.CategoryLike, d.Config.Session.DefaultTarget)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = theme.BusyStyle

	return Model{
		ctx:         ctx,
		cancel:      cancel,
		currentView: ViewFeed,
		keys:        k,
		feedStore:   d.Feed,
		poller:      d.Poller,
		coordinator: d.Coordinator,
		submitter:   d.Submitter,
		form:        form,
		log:         log,
		feedList:    feedlist.New(k, d.Coordinator.Tracker(), 80, 20),
		compose:     eventform.New(form, 80, 20),
		helpView: helpview.New(k, helpview.Session{
			UserID:  d.Config.Session.UserID,
			BaseURL: d.Config.API.BaseURL,
		}, 80, 20),
		palette: command.New(80, 20),
		spinner: sp,
	}
}

// Init starts the poller. Its first refresh is issued immediately.
func (m Model) Init() tea.Cmd {
	return m.poller.Start(m.ctx)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.feedList.SetSize(w, h)
		m.compose.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.palette.SetSize(w, h)
		return m.updateActiveView(msg)

	case appsync.SyncResultMsg:
		m.lastSync = msg
		cmd := m.feedList.SetFeed(m.feedStore.Snapshot(), m.feedStore.Loading())
		return m, tea.Batch(cmd, m.poller.WaitForNextResult())

	case feedlist.DeleteRequestMsg:
		return m, tea.Batch(m.deleteNotification(msg.ID), m.startSpinner())

	case deleteResultMsg:
		return m, m.feedList.SetFeed(m.feedStore.Snapshot(), m.feedStore.Loading())

	case feedlist.RefreshRequestMsg:
		m.poller.RefreshNow()
		return m, nil

	case eventform.SubmitRequestMsg:
		return m, tea.Batch(m.submitEvent(), m.startSpinner())

	case submitResultMsg:
		return m, m.compose.Start()

	case eventform.CancelMsg:
		m.currentView = ViewFeed
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(msg)

	case command.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

		// The palette and compose views own the keyboard while open.
		if m.currentView == ViewCommand {
			break
		}
		if m.currentView == ViewCompose {
			if key.Matches(msg, m.keys.Back) {
				m.currentView = ViewFeed
				return m, nil
			}
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Back):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}

		case key.Matches(msg, m.keys.Command):
			m.previousView = m.currentView
			m.currentView = ViewCommand
			return m, m.palette.Focus()

		case key.Matches(msg, m.keys.Compose):
			if m.currentView == ViewFeed {
				return m.openCompose()
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

func (m Model) openCompose() (tea.Model, tea.Cmd) {
	m.previousView = ViewFeed
	m.currentView = ViewCompose
	return m, m.compose.Start()
}

// executeCommand runs a palette command.
func (m Model) executeCommand(msg command.CommandMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case command.ActionRefresh:
		m.poller.RefreshNow()
		return m, nil
	case command.ActionFilter:
		m.currentView = ViewFeed
		return m, m.feedList.SetSelector(msg.Filter)
	case command.ActionCompose:
		return m.openCompose()
	case command.ActionDelete:
		n, ok := m.feedList.SelectedNotification()
		if !ok || m.coordinator.Tracker().Has(n.ID) {
			return m, nil
		}
		return m, tea.Batch(m.deleteNotification(n.ID), m.startSpinner())
	case command.ActionHelp:
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil
	case command.ActionQuit:
		return m.quit()
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	m.poller.Stop()
	return m, tea.Quit
}

// busy reports whether any request the user is waiting on is in flight.
func (m Model) busy() bool {
	return len(m.coordinator.Tracker().IDs()) > 0 || m.form.Pending()
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewFeed:
		m.feedList, cmd = m.feedList.Update(msg)
	case ViewCompose:
		m.compose, cmd = m.compose.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.palette, cmd = m.palette.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(
		fmt.Sprintf("Insyd Notifications (%d)", m.feedStore.Len()),
		m.syncStatus(),
	)

	filterBar := ""
	if m.currentView == ViewFeed {
		items := m.feedStore.Snapshot()
		filterBar = m.layout.RenderFilterBar(m.feedList.Selector(), len(items), feed.CountBy(items))
	}

	return m.layout.RenderWithFrame(
		header,
		filterBar,
		m.renderContent(),
		m.layout.RenderStatusBar(m.keyHints()),
	)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewCompose:
		return m.compose.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.palette.View()
	default:
		return m.feedList.View()
	}
}

// syncStatus returns a short string describing the refresh state.
func (m Model) syncStatus() string {
	status := m.poller.Status()

	switch {
	case m.feedStore.Loading():
		return "loading"
	case m.lastSync.AuthError:
		return "unauthorized: run insyd --set-token"
	case status.State == appsync.SyncError:
		return "⚠ stale"
	case status.State == appsync.SyncRunning:
		return "syncing"
	case !status.LastSync.IsZero():
		return "updated " + status.LastSync.Format("15:04:05")
	default:
		return "idle"
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	prefix := ""
	if m.busy() {
		prefix = m.spinner.View() + " "
	}

	switch m.currentView {
	case ViewHelp:
		return prefix + "? close help | esc back"
	case ViewCompose:
		return prefix + "enter next/submit | esc back"
	case ViewCommand:
		return prefix + "enter run | esc cancel"
	default:
		return prefix + "q quit | ? help | : command | n new event | d delete | r refresh | 0-5 filter"
	}
}
