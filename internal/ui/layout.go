package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/animefeed/internal/theme"
)

// Layout manages the terminal frame: header, filter tabs, content and
// status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	TabsHeight      int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		TabsHeight:      1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height left for the active view.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.TabsHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the title bar with a right-aligned status.
func (l Layout) RenderHeader(title, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	statusRendered := theme.HeaderStyle.Align(lipgloss.Right).Render(status)

	gap := l.Width - lipgloss.Width(titleRendered) - lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, titleRendered, filler, statusRendered)
}

// Tab is one entry of the filter bar.
type Tab struct {
	Label  string
	Active bool
	Badge  string
}

// RenderTabs renders the filter bar.
func (l Layout) RenderTabs(tabs []Tab) string {
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := t.Label
		if t.Badge != "" {
			label += " " + theme.UnreadStyle.Render(t.Badge)
		}
		if t.Active {
			parts = append(parts, theme.ActiveTabStyle.Render(label))
		} else {
			parts = append(parts, theme.TabStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().MaxWidth(l.Width).Render(strings.Join(parts, " "))
}

// RenderStatusBar renders the bottom bar. An error message takes the
// place of the hints.
func (l Layout) RenderStatusBar(hints, errMsg string) string {
	style := theme.StatusBarStyle
	text := hints
	if errMsg != "" {
		style = theme.ErrorBarStyle
		text = errMsg
	}
	rendered := style.Render(text)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame stacks header, tabs, content and status bar.
func (l Layout) RenderWithFrame(header, tabs, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, statusBar)
}
