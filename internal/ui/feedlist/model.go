package feedlist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/animefeed/internal/feed"
	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/theme"
	"github.com/nhle/animefeed/internal/ui/card"
)

// loadMoreThreshold is how close to the end the cursor must be before
// the next page is requested.
const loadMoreThreshold = 3

// LoadMoreMsg asks the parent to fetch the next page of Filter.
type LoadMoreMsg struct {
	Filter feed.Filter
}

// FlagFunc reports per-key card flags at render time.
type FlagFunc func(key string) card.Flags

// Model shows one feed bucket as a scrollable list of cards.
type Model struct {
	list    list.Model
	spinner spinner.Model
	bucket  feed.Bucket
	flags   FlagFunc
	width   int
	height  int
}

// New creates an empty feed list.
func New(flags FlagFunc, now func() time.Time, width, height int) Model {
	l := list.New([]list.Item{}, ActivityDelegate{now: now}, width, height-1)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	if flags == nil {
		flags = func(string) card.Flags { return card.Flags{} }
	}
	return Model{
		list:    l,
		spinner: sp,
		flags:   flags,
		width:   width,
		height:  height,
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetBucket replaces the shown activities, keeping the cursor on the same
// activity when it is still present.
func (m *Model) SetBucket(b feed.Bucket) tea.Cmd {
	selected, hadSelection := m.SelectedKey()
	if b.Filter != m.bucket.Filter {
		hadSelection = false
	}
	m.bucket = b

	items := make([]list.Item, len(b.Activities))
	cursor := -1
	for i, a := range b.Activities {
		key := a.Key()
		items[i] = ActivityItem{Activity: a, Flags: m.flags(key)}
		if hadSelection && key == selected {
			cursor = i
		}
	}
	cmd := m.list.SetItems(items)
	switch {
	case cursor >= 0:
		m.list.Select(cursor)
	case !hadSelection:
		m.list.Select(0)
	case m.list.Index() >= len(items) && len(items) > 0:
		m.list.Select(len(items) - 1)
	}
	return cmd
}

// Bucket returns the bucket currently shown.
func (m Model) Bucket() feed.Bucket { return m.bucket }

// SelectedKey returns the key of the activity under the cursor.
func (m Model) SelectedKey() (string, bool) {
	a, ok := m.Selected()
	if !ok {
		return "", false
	}
	return a.Key(), true
}

// Selected returns the activity under the cursor.
func (m Model) Selected() (model.Activity, bool) {
	it, ok := m.list.SelectedItem().(ActivityItem)
	if !ok {
		return model.Activity{}, false
	}
	return it.Activity, true
}

// Update handles navigation and asks for the next page near the end.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, tea.Batch(cmd, m.maybeLoadMore())
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) maybeLoadMore() tea.Cmd {
	n := len(m.list.Items())
	if n == 0 || !m.bucket.HasMore || m.bucket.Loading() {
		return nil
	}
	if m.list.Index() < n-loadMoreThreshold {
		return nil
	}
	f := m.bucket.Filter
	return func() tea.Msg { return LoadMoreMsg{Filter: f} }
}

// View renders the list, a loading line or an empty state.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.footer())
}

func (m Model) footer() string {
	b := m.bucket
	switch {
	case b.Loading():
		return theme.HelpStyle.Render(m.spinner.View() + " loading more…")
	case b.State == feed.StateError && b.Err != nil:
		return theme.HelpStyle.Render("could not load more, press r to retry")
	case !b.HasMore:
		return theme.HelpStyle.Render(fmt.Sprintf("— %d activities, end of feed —", len(b.Activities)))
	}
	return ""
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.bucket.State == feed.StateEmpty || m.bucket.Loading():
		return style.Render(m.spinner.View() + " loading feed…")
	case m.bucket.State == feed.StateError:
		return style.Render("Could not load the feed.\nPress r to retry.")
	}

	switch m.bucket.Filter {
	case feed.FilterFollowing:
		return style.Render("Nothing here yet.\nFollow people to see their activity.")
	case feed.FilterNotifications:
		return style.Render("No notifications.")
	case feed.FilterSaved:
		return style.Render("No saved activities.\nPress s on an activity to save it.")
	}
	return style.Render("The feed is empty.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-1)
}
