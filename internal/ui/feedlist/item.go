package feedlist

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/microcosm-cc/bluemonday"

	"github.com/nhle/insyd/internal/feed"
	"github.com/nhle/insyd/internal/model"
	"github.com/nhle/insyd/internal/theme"
)

// strict strips every tag from server-supplied content.
var strict = bluemonday.StrictPolicy()

// Sanitize returns content as plain single-line text.
func Sanitize(content string) string {
	clean := html.UnescapeString(strict.Sanitize(content))
	return strings.Join(strings.Fields(clean), " ")
}

// NotificationItem wraps a model.Notification so it can be used in a
// bubbles/list.
type NotificationItem struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i NotificationItem) FilterValue() string { return Sanitize(i.Notification.Content) }

// Title returns the title-cased category.
func (i NotificationItem) Title() string { return i.Notification.Type.Label() }

// Description returns the local time and content.
func (i NotificationItem) Description() string {
	return i.Notification.LocalTime() + " | " + Sanitize(i.Notification.Content)
}

// badge returns the short category marker. Unrecognized categories share
// one fallback badge.
func badge(c model.Category) string {
	switch c.Bucket() {
	case model.CategoryLike:
		return "♥"
	case model.CategoryComment:
		return "✎"
	case model.CategoryFollow:
		return "+"
	case model.CategoryPost:
		return "▤"
	case model.CategoryMessage:
		return "✉"
	default:
		return "•"
	}
}

// ItemDelegate implements list.ItemDelegate for rendering notifications.
type ItemDelegate struct {
	// tracker is shared with the mutation coordinator so busy rows are
	// visible as soon as a deletion starts.
	tracker *feed.Tracker
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(NotificationItem)
	if !ok {
		return
	}
	n := ni.Notification

	style := theme.CategoryStyle(string(n.Type.Bucket()))
	label := n.Type.Label()
	if label == "" {
		label = "Unknown"
	}

	busy := ""
	if d.tracker != nil && d.tracker.Has(n.ID) {
		busy = theme.BusyStyle.Render(" deleting…")
	}

	line := fmt.Sprintf(
		"%s %s  %s%s",
		style.Render(badge(n.Type)+" "+label),
		theme.DimmedStyle.Render(n.LocalTime()),
		Sanitize(n.Content),
		busy,
	)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
