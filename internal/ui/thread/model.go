package thread

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/animefeed/internal/commenttree"
	"github.com/nhle/animefeed/internal/feed"
	"github.com/nhle/animefeed/internal/keys"
	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/theme"
	"github.com/nhle/animefeed/internal/ui/card"
)

// BackMsg signals the parent to return to the feed.
type BackMsg struct{}

// Action is something the user asked to do in the thread.
type Action int

const (
	ActionComment Action = iota
	ActionReply
	ActionLikeComment
	ActionDeleteComment
)

// ActionMsg asks the parent to perform Action on the thread of Key.
// CommentID is set for actions on a specific comment.
type ActionMsg struct {
	Action    Action
	Key       string
	CommentID int64
}

// Model shows an activity and its two-level comment thread. A cursor
// moves over the comments in display order.
type Model struct {
	activity model.Activity
	flags    card.Flags
	thread   feed.Thread
	rows     []model.Comment
	cursor   int
	viewport viewport.Model
	keys     *keys.KeyMap
	userID   int64
	now      func() time.Time
	width    int
	height   int
}

// New creates an empty thread view.
func New(k *keys.KeyMap, now func() time.Time, width, height int) Model {
	if now == nil {
		now = time.Now
	}
	vp := viewport.New(width, height)
	return Model{
		viewport: vp,
		keys:     k,
		now:      now,
		width:    width,
		height:   height,
	}
}

// SetUser sets the signed-in user; only their comments can be deleted.
func (m *Model) SetUser(id int64) { m.userID = id }

// Open shows a different activity and resets the cursor.
func (m *Model) Open(a model.Activity, f card.Flags, t feed.Thread) {
	m.activity = a
	m.cursor = 0
	m.Refresh(a, f, t)
	m.viewport.GotoTop()
}

// Refresh re-renders with new state for the open activity.
func (m *Model) Refresh(a model.Activity, f card.Flags, t feed.Thread) {
	m.activity = a
	m.flags = f
	m.thread = t
	m.rows = commenttree.Flatten(t.Comments)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.viewport.SetContent(m.renderContent())
}

// Key returns the key of the open activity.
func (m Model) Key() string { return m.activity.Key() }

// SelectedComment returns the comment under the cursor.
func (m Model) SelectedComment() (model.Comment, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return model.Comment{}, false
	}
	return m.rows[m.cursor], true
}

// Init returns the initial command for the thread view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the thread view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				m.viewport.SetContent(m.renderContent())
				m.scrollToCursor()
			}
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.viewport.SetContent(m.renderContent())
				m.scrollToCursor()
			}
			return m, nil

		case key.Matches(msg, m.keys.Comment):
			return m, m.action(ActionComment, 0)

		case key.Matches(msg, m.keys.Reply):
			if c, ok := m.SelectedComment(); ok {
				return m, m.action(ActionReply, c.ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.LikeComment):
			if c, ok := m.SelectedComment(); ok {
				return m, m.action(ActionLikeComment, c.ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if c, ok := m.SelectedComment(); ok && c.UserID == m.userID {
				return m, m.action(ActionDeleteComment, c.ID)
			}
			return m, nil
		}
	}

	// Delegate to viewport for paging
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) action(a Action, commentID int64) tea.Cmd {
	k := m.Key()
	return func() tea.Msg {
		return ActionMsg{Action: a, Key: k, CommentID: commentID}
	}
}

// scrollToCursor keeps the selected comment inside the viewport.
func (m *Model) scrollToCursor() {
	line := card.Height + 2 + m.cursor*2
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
	} else if line >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(line - m.viewport.Height + 2)
	}
}

// View renders the thread view.
func (m Model) View() string {
	return theme.PanelStyle.
		Width(m.width - 4).
		Render(m.viewport.View())
}

func (m Model) renderContent() string {
	now := m.now()
	var b strings.Builder
	b.WriteString(strings.Join(card.Render(m.activity, m.flags, m.width-8, now), "\n"))
	b.WriteString("\n\n")

	switch {
	case m.thread.Loading && !m.thread.Loaded:
		b.WriteString(theme.HelpStyle.Render("loading comments…"))
		return b.String()
	case m.thread.Err != nil && !m.thread.Loaded:
		b.WriteString(theme.HelpStyle.Render("could not load comments"))
		return b.String()
	case len(m.rows) == 0:
		b.WriteString(theme.HelpStyle.Render("No comments yet. Press c to write one."))
		return b.String()
	}

	for i, c := range m.rows {
		b.WriteString(m.renderComment(c, i == m.cursor, now))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderComment(c model.Comment, selected bool, now time.Time) string {
	name := c.DisplayName
	if name == "" {
		name = c.Username
	}
	likes := fmt.Sprintf("♥ %d", c.LikesCount)
	if c.UserLiked {
		likes = theme.LikedStyle.Render(likes)
	} else {
		likes = theme.DimmedStyle.Render(likes)
	}

	head := fmt.Sprintf("%s %s  %s",
		theme.NameStyle.Render(name),
		theme.DimmedStyle.Render(c.CreatedAt.TimeAgo(now)),
		likes)
	text := strings.Join(strings.Fields(c.Content), " ")

	style := theme.CardStyle
	if selected {
		style = theme.SelectedCardStyle
	}
	if c.IsReply() {
		style = style.MarginLeft(4)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, head, text))
}

// SetSize updates the thread view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width - 8
	m.viewport.Height = height - 4
	m.viewport.SetContent(m.renderContent())
}
