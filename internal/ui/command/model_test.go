package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c, ok := Parse("  Follow 42 ")
	require.True(t, ok)
	assert.Equal(t, "follow", c.Name)
	assert.Equal(t, []string{"42"}, c.Args)

	c, ok = Parse("refresh")
	require.True(t, ok)
	assert.Equal(t, "refresh", c.Name)
	assert.Empty(t, c.Args)

	_, ok = Parse("   ")
	assert.False(t, ok)
}

func TestEnterEmitsCommand(t *testing.T) {
	m := New(80, 24)
	m.Focus()
	for _, r := range "saved" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg{Name: "saved", Args: []string{}}, cmd())
	assert.Empty(t, m.input.Value())
}

func TestEnterOnBlankLineDoesNothing(t *testing.T) {
	m := New(80, 24)
	m.Focus()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestHistoryRecall(t *testing.T) {
	m := New(80, 24)
	m.Focus()
	for _, line := range []string{"refresh", "follow 7"} {
		m.input.SetValue(line)
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "follow 7", m.input.Value())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "refresh", m.input.Value())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "refresh", m.input.Value(), "stops at the oldest line")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "follow 7", m.input.Value())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Empty(t, m.input.Value())
}

func TestHistorySkipsRepeats(t *testing.T) {
	m := New(80, 24)
	m.Focus()
	for i := 0; i < 3; i++ {
		m.input.SetValue("refresh")
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	assert.Equal(t, []string{"refresh"}, m.history)
}
