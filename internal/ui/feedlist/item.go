package feedlist

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/theme"
	"github.com/nhle/animefeed/internal/ui/card"
)

// ActivityItem wraps an activity so it can be used in a bubbles/list.
type ActivityItem struct {
	Activity model.Activity
	Flags    card.Flags
}

// FilterValue returns the string used for fuzzy filtering.
func (i ActivityItem) FilterValue() string {
	return i.Activity.Username + " " + i.Activity.ItemTitle + " " + i.Activity.Body()
}

// ActivityDelegate implements list.ItemDelegate for activity cards.
type ActivityDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each card takes.
func (d ActivityDelegate) Height() int { return card.Height }

// Spacing returns the number of blank lines between cards.
func (d ActivityDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d ActivityDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single card.
func (d ActivityDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(ActivityItem)
	if !ok {
		return
	}

	now := time.Now()
	if d.now != nil {
		now = d.now()
	}

	style := theme.CardStyle
	if index == m.Index() {
		style = theme.SelectedCardStyle
	}
	lines := card.Render(it.Activity, it.Flags, m.Width()-3, now)
	_, _ = io.WriteString(w, style.Render(strings.Join(lines, "\n")))
}
