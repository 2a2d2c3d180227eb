package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/insyd/internal/model"
	"github.com/nhle/insyd/internal/theme"
)

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	FilterBarHeight int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		FilterBarHeight: 1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header, filter bar and status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.FilterBarHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the top bar: title on the left, sync status on the
// right.
func (l Layout) RenderHeader(title string, syncStatus string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(syncStatus)

	return l.fill(theme.HeaderStyle, titleRendered, statusRendered)
}

// RenderFilterBar renders one button per selector with its item count. The
// active selector is highlighted.
func (l Layout) RenderFilterBar(
	active model.FilterSelector,
	total int,
	counts map[model.Category]int,
) string {
	parts := make([]string, 0, len(model.Selectors()))
	for i, sel := range model.Selectors() {
		n := total
		if sel != model.FilterAll {
			n = counts[model.Category(sel)]
		}
		label := fmt.Sprintf("%d %s (%d)", i, sel.Label(), n)

		style := theme.FilterStyle
		if sel == active {
			style = theme.ActiveFilterStyle
		}
		parts = append(parts, style.Render(label))
	}

	if other := counts[model.CategoryOther]; other > 0 {
		parts = append(parts, theme.FilterStyle.Render(fmt.Sprintf("+%d other", other)))
	}

	return lipgloss.NewStyle().MaxWidth(l.Width).Render(strings.Join(parts, " "))
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	return l.fill(theme.StatusBarStyle, theme.StatusBarStyle.Render(hints), "")
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, filter bar, content area, and status bar. An empty filter
// bar is omitted.
func (l Layout) RenderWithFrame(
	header string,
	filterBar string,
	content string,
	statusBar string,
) string {
	rows := []string{header}
	if filterBar != "" {
		rows = append(rows, filterBar)
	}
	rows = append(rows, content, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// fill pads the gap between left and right with the style's background so
// the bar spans the full width.
func (l Layout) fill(style lipgloss.Style, left, right string) string {
	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	filler := style.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(style.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}
