package app

import (
	"fmt"

	"github.com/nhle/animefeed/internal/feed"
	"github.com/nhle/animefeed/internal/ui"
)

var filterLabels = map[feed.Filter]string{
	feed.FilterAll:           "All",
	feed.FilterFollowing:     "Following",
	feed.FilterNotifications: "Notifications",
	feed.FilterSaved:         "Saved",
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "AnimeFeed"
	if m.unreadCount > 0 {
		title = fmt.Sprintf("AnimeFeed [%d new]", m.unreadCount)
	}
	status := "signed out"
	if m.user != nil {
		status = "@" + m.user.Username
	}

	header := m.layout.RenderHeader(title, status)
	tabs := ""
	if m.currentView != ViewLogin {
		tabs = m.layout.RenderTabs(m.tabs())
	}
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.errMessage)

	return m.layout.RenderWithFrame(header, tabs, m.renderContent(), statusBar)
}

func (m Model) tabs() []ui.Tab {
	active := m.feed.Store.Active()
	tabs := make([]ui.Tab, len(feed.Filters))
	for i, f := range feed.Filters {
		tabs[i] = ui.Tab{Label: fmt.Sprintf("%d %s", i+1, filterLabels[f]), Active: f == active}
		if f == feed.FilterNotifications && m.unreadCount > 0 {
			tabs[i].Badge = fmt.Sprintf("(%d)", m.unreadCount)
		}
	}
	return tabs
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.login.View()
	case ViewFeed:
		return m.feedList.View()
	case ViewThread:
		return m.thread.View()
	case ViewCompose:
		return m.compose.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMessage != "" {
		return m.statusMessage
	}

	switch m.currentView {
	case ViewLogin:
		return "enter next | esc quit"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewThread:
		return "esc back | j/k move | c comment | R reply | L like | d delete"
	case ViewCompose:
		return "enter submit | esc cancel"
	default:
		return "q quit | ? help | tab feeds | enter comments | l like | s save | c comment | n post"
	}
}
