package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/animefeed/internal/keys"
	"github.com/nhle/animefeed/internal/theme"
)

type section struct {
	title    string
	bindings func(k *keys.KeyMap) []key.Binding
}

var sections = []section{
	{"Navigation", func(k *keys.KeyMap) []key.Binding {
		return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Help, k.Quit}
	}},
	{"Feeds", func(k *keys.KeyMap) []key.Binding {
		return []key.Binding{k.NextFilter, k.PrevFilter, k.FilterAll, k.FilterFollowing,
			k.FilterNotifications, k.FilterSaved, k.Refresh, k.MarkRead}
	}},
	{"Activity", func(k *keys.KeyMap) []key.Binding {
		return []key.Binding{k.Like, k.Save, k.Comment, k.Rate, k.Edit, k.Delete, k.Follow, k.NewPost}
	}},
	{"Comments", func(k *keys.KeyMap) []key.Binding {
		return []key.Binding{k.Comment, k.Reply, k.LikeComment, k.Delete}
	}},
	{"Session", func(k *keys.KeyMap) []key.Binding {
		return []key.Binding{k.Logout}
	}},
}

// Commands lists the command palette entries shown under the bindings.
var Commands = [][2]string{
	{"refresh", "reload the current feed"},
	{"post", "write a new post"},
	{"markread", "mark all notifications read"},
	{"follow <id>", "follow a user"},
	{"unfollow <id>", "stop following a user"},
	{"all | following | notifications | saved", "switch feed"},
	{"logout", "sign out"},
	{"quit", "exit"},
}

// Model is the help overlay: key bindings by area, then palette commands.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{keys: keys, help: h, width: width, height: height}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the parent closes the overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) View() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	columns := make([]string, 0, len(sections))
	for _, s := range sections {
		col := lipgloss.JoinVertical(lipgloss.Left,
			heading.Render(s.title),
			m.help.FullHelpView([][]key.Binding{s.bindings(m.keys)}),
		)
		columns = append(columns, lipgloss.NewStyle().MarginRight(3).Render(col))
	}

	var cmds strings.Builder
	for _, c := range Commands {
		cmds.WriteString(theme.NameStyle.Render(":"+c[0]) + "  " + theme.DimmedStyle.Render(c[1]) + "\n")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1).Render("Keyboard Shortcuts"),
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
		"",
		heading.Render("Commands"),
		strings.TrimRight(cmds.String(), "\n"),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
