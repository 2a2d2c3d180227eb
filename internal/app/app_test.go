package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/insyd/internal/event"
	"github.com/nhle/insyd/internal/feed"
	"github.com/nhle/insyd/internal/model"
	"github.com/nhle/insyd/internal/mutation"
	appsync "github.com/nhle/insyd/internal/sync"
	"github.com/nhle/insyd/internal/ui/command"
	"github.com/nhle/insyd/internal/ui/feedlist"
	"github.com/nhle/insyd/tests/testutil"
)

func newTestModel(t *testing.T) (Model, *feed.Store) {
	t.Helper()
	srv, client := testutil.NewTestBackend(t)
	srv.Seed("user123",
		model.Notification{ID: "1", Type: model.CategoryLike, Content: "Ann liked your post", Timestamp: "2025-01-01T10:00:00.000Z"},
		model.Notification{ID: "2", Type: model.CategoryComment, Content: "Bob commented", Timestamp: "2025-01-01T09:00:00.000Z"},
	)

	cfg, err := model.LoadConfig(t.TempDir() + "/none.yaml")
	require.NoError(t, err)

	store := feed.NewStore()
	poller := appsync.New(store, appsync.Config{Fetcher: client, UserID: "user123", Interval: time.Hour})
	t.Cleanup(func() {
		poller.Stop()
		poller.Wait()
	})

	m := New(Deps{
		Config:      cfg,
		Feed:        store,
		Poller:      poller,
		Coordinator: mutation.NewCoordinator(client, store, feed.NewTracker(), nil, nil),
		Submitter:   event.NewSubmitter(client, "user123"),
	})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(Model), store
}

func TestViewShowsLoadingUntilFirstResult(t *testing.T) {
	m, store := newTestModel(t)
	assert.Contains(t, m.View(), "Loading notifications")

	_, err := m.poller.Refresh(context.Background())
	require.NoError(t, err)

	next, _ := m.Update(appsync.SyncResultMsg{Count: store.Len(), At: time.Now()})
	view := next.(Model).View()
	assert.Contains(t, view, "Ann liked your post")
	assert.Contains(t, view, "Insyd Notifications (2)")
}

func TestDeleteFlowRemovesRow(t *testing.T) {
	m, store := newTestModel(t)
	_, err := m.poller.Refresh(context.Background())
	require.NoError(t, err)
	next, _ := m.Update(appsync.SyncResultMsg{Count: 2})
	m = next.(Model)

	next, cmd := m.Update(feedlist.DeleteRequestMsg{ID: "1"})
	m = next.(Model)
	require.NotNil(t, cmd)

	result := m.deleteNotification("1")()
	res, ok := result.(deleteResultMsg)
	require.True(t, ok)
	require.NoError(t, res.err)

	next, _ = m.Update(res)
	m = next.(Model)
	assert.Equal(t, 1, store.Len())
	assert.NotContains(t, m.View(), "Ann liked your post")
}

func TestComposeAndBack(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = next.(Model)
	assert.Equal(t, ViewCompose, m.currentView)
	assert.Contains(t, m.View(), "Send Event")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Equal(t, ViewFeed, m.currentView)
}

func TestSubmitResultKeepsTarget(t *testing.T) {
	m, _ := newTestModel(t)
	m.form.SetTarget("u9")
	m.form.SetContent("hi")

	res, ok := m.submitEvent()().(submitResultMsg)
	require.True(t, ok)
	require.NoError(t, res.err)
	assert.Equal(t, event.SuccessMessage, res.status)

	next, _ := m.Update(res)
	m = next.(Model)
	v := m.form.Values()
	assert.Equal(t, "u9", v.TargetUserID)
	assert.Empty(t, v.Content)
}

func TestQuitCancelsSession(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Error(t, m.ctx.Err())
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestPaletteFilterCommand(t *testing.T) {
	m, _ := newTestModel(t)
	_, err := m.poller.Refresh(context.Background())
	require.NoError(t, err)
	next, _ := m.Update(appsync.SyncResultMsg{Count: 2})
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(":")})
	m = next.(Model)
	assert.Equal(t, ViewCommand, m.currentView)

	next, _ = m.Update(command.CommandMsg{Action: command.ActionFilter, Filter: model.FilterFor(model.CategoryComment)})
	m = next.(Model)
	assert.Equal(t, ViewFeed, m.currentView)
	visible := m.feedList.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "2", visible[0].ID)
}
