package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/animefeed/internal/theme"
)

// Names are the commands the palette completes.
var Names = []string{
	"refresh", "post", "markread", "follow", "unfollow",
	"all", "following", "notifications", "saved", "logout", "quit",
}

// maxHistory bounds how many executed lines are kept for recall.
const maxHistory = 20

// CommandMsg is emitted when the user executes a command. Name is the
// first word, lower-cased; Args holds the rest.
type CommandMsg struct {
	Name string
	Args []string
}

// Parse splits a command line into a CommandMsg.
func Parse(line string) (CommandMsg, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return CommandMsg{}, false
	}
	return CommandMsg{Name: strings.ToLower(fields[0]), Args: fields[1:]}, true
}

// Model is the ":" command palette. Tab completes a command name and
// up/down recall earlier lines.
type Model struct {
	input   textinput.Model
	history []string
	recall  int
	width   int
	height  int
}

// New creates a command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "refresh, post, follow <user id>, saved…"
	ti.Prompt = ": "
	ti.Width = width - 6
	ti.ShowSuggestions = true
	ti.SetSuggestions(Names)

	return Model{input: ti, width: width, height: height}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			line := m.input.Value()
			m.input.Reset()
			parsed, ok := Parse(line)
			if !ok {
				return m, nil
			}
			m.remember(strings.TrimSpace(line))
			return m, func() tea.Msg { return parsed }

		case "up":
			if m.recall < len(m.history) {
				m.recall++
				m.input.SetValue(m.history[len(m.history)-m.recall])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.recall > 0 {
				m.recall--
			}
			if m.recall == 0 {
				m.input.Reset()
			} else {
				m.input.SetValue(m.history[len(m.history)-m.recall])
				m.input.CursorEnd()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) remember(line string) {
	m.recall = 0
	if n := len(m.history); n > 0 && m.history[n-1] == line {
		return
	}
	m.history = append(m.history, line)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Command")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.input.View(),
		"",
		theme.HelpStyle.Render("tab complete | ↑/↓ history | enter run | esc close"),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus clears the line and gives the input keyboard focus.
func (m *Model) Focus() tea.Cmd {
	m.recall = 0
	m.input.Reset()
	return m.input.Focus()
}
