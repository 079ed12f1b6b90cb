package login

import (
	"fmt"
	"net/mail"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/animefeed/internal/theme"
)

// SubmitMsg carries the credentials the user entered.
type SubmitMsg struct {
	Register bool
	Username string
	Email    string
	Password string
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

const (
	modeLogin    = "login"
	modeRegister = "register"
)

type formBindings struct {
	mode     string
	username string
	email    string
	password string
}

// Model is the sign-in form shown when there is no session.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	errMsg string
	width  int
	height int
}

// New creates the sign-in form model.
func New(width, height int) Model {
	return Model{fb: &formBindings{mode: modeLogin}, width: width, height: height}
}

// Start (re)builds the form. errMsg is shown above it, e.g. after a
// rejected login or an expired session.
func (m *Model) Start(errMsg string) tea.Cmd {
	m.errMsg = errMsg
	m.fb.password = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account").
				Options(
					huh.NewOption("Log in", modeLogin),
					huh.NewOption("Create an account", modeRegister),
				).
				Value(&m.fb.mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(required("username")),
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(validateEmail),
		).WithHideFunc(func() bool { return m.fb.mode != modeRegister }),
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(required("username")),
		).WithHideFunc(func() bool { return m.fb.mode == modeRegister }),
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(required("password")),
		),
	).WithWidth(m.formWidth())
	return m.form.Init()
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.handleSubmit()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

func (m Model) handleSubmit() tea.Cmd {
	out := SubmitMsg{
		Register: m.fb.mode == modeRegister,
		Username: strings.TrimSpace(m.fb.username),
		Password: m.fb.password,
	}
	if out.Register {
		out.Email = strings.TrimSpace(m.fb.email)
	}
	return func() tea.Msg { return out }
}

// View renders the sign-in form.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Sign in to AnimeFeed")

	parts := []string{title}
	if m.errMsg != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.errMsg))
	}
	if m.form != nil {
		parts = append(parts, m.form.View())
	} else {
		parts = append(parts, theme.HelpStyle.Render("signing in…"))
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateEmail(s string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}
