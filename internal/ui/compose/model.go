package compose

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/service"
	"github.com/nhle/animefeed/internal/theme"
)

// Kind selects what the form writes.
type Kind int

const (
	KindComment Kind = iota
	KindReply
	KindPost
	KindEdit
	KindRate
)

func (k Kind) title() string {
	switch k {
	case KindComment:
		return "New Comment"
	case KindReply:
		return "Reply"
	case KindPost:
		return "New Post"
	case KindEdit:
		return "Edit"
	case KindRate:
		return "Rate"
	}
	return ""
}

// SubmitMsg is dispatched when the form completes.
type SubmitMsg struct {
	Kind     Kind
	Key      string
	ParentID int64
	Text     string
	Rating   *float64
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	text   string
	rating string
}

// Model is the Bubble Tea model for every compose and edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	kind     Kind
	key      string
	parentID int64
	activity model.ActivityType
	width    int
	height   int
}

// New creates an idle form model.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// StartComment opens an empty comment form for the activity key.
func (m *Model) StartComment(key string) tea.Cmd {
	m.reset(KindComment, key, "")
	m.parentID = 0
	m.form = m.buildTextForm("Comment", "Say something nice…", service.ValidateComment)
	return m.form.Init()
}

// StartReply opens a reply form under parentID.
func (m *Model) StartReply(key string, parentID int64, parentAuthor string) tea.Cmd {
	m.reset(KindReply, key, "")
	m.parentID = parentID
	m.form = m.buildTextForm("Reply to "+parentAuthor, "Write a reply…", service.ValidateComment)
	return m.form.Init()
}

// StartPost opens the new post form.
func (m *Model) StartPost() tea.Cmd {
	m.reset(KindPost, "", "")
	m.form = m.buildTextForm("Post", "What are you watching?", service.ValidatePost)
	return m.form.Init()
}

// StartEdit opens an edit form prefilled from a. Rating activities get a
// rating field, reviews get both, posts only the text.
func (m *Model) StartEdit(a model.Activity) tea.Cmd {
	m.reset(KindEdit, a.Key(), a.Body())
	m.activity = a.ActivityType
	if a.Rating != nil {
		m.fb.rating = strconv.FormatFloat(*a.Rating, 'f', -1, 64)
	}

	var fields []huh.Field
	switch a.ActivityType {
	case model.ActivityReview:
		fields = append(fields, m.ratingField(), m.textField("Review", "", service.ValidateReview))
	case model.ActivityUserPost:
		fields = append(fields, m.textField("Post", "", service.ValidatePost))
	default:
		fields = append(fields, m.ratingField())
	}
	m.form = m.newForm(fields...)
	return m.form.Init()
}

// StartRate opens the rating form for the activity.
func (m *Model) StartRate(a model.Activity) tea.Cmd {
	m.reset(KindRate, a.Key(), "")
	m.activity = a.ActivityType
	if a.Rating != nil {
		m.fb.rating = strconv.FormatFloat(*a.Rating, 'f', -1, 64)
	}
	m.form = m.newForm(m.ratingField())
	return m.form.Init()
}

func (m *Model) reset(k Kind, key, text string) {
	m.kind = k
	m.key = key
	m.parentID = 0
	m.activity = ""
	m.fb.text = text
	m.fb.rating = ""
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

	if m.form.State == huh.StateCompleted {
		m.form = nil
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// Active reports whether a form is open.
func (m Model) Active() bool { return m.form != nil }

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(m.kind.title()) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildTextForm(title, placeholder string, validate func(string) error) *huh.Form {
	return m.newForm(m.textField(title, placeholder, validate))
}

func (m *Model) newForm(fields ...huh.Field) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) textField(title, placeholder string, validate func(string) error) huh.Field {
	return huh.NewText().
		Title(title).
		Placeholder(placeholder).
		CharLimit(service.MaxCommentLength).
		Value(&m.fb.text).
		Validate(validate)
}

func (m *Model) ratingField() huh.Field {
	return huh.NewInput().
		Title("Rating").
		Placeholder("0 to 5, in steps of 0.5").
		Value(&m.fb.rating).
		Validate(func(s string) error {
			_, err := ParseRating(s)
			return err
		})
}

// ParseRating parses and validates a rating entered as text.
func ParseRating(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("rating is required")
	}
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("rating must be a number")
	}
	if err := service.ValidateRating(r); err != nil {
		return 0, err
	}
	return r, nil
}

func (m Model) handleSubmit() tea.Cmd {
	out := SubmitMsg{
		Kind:     m.kind,
		Key:      m.key,
		ParentID: m.parentID,
		Text:     strings.TrimSpace(m.fb.text),
	}
	if m.kind == KindRate || (m.kind == KindEdit && m.activity != model.ActivityUserPost) {
		if r, err := ParseRating(m.fb.rating); err == nil {
			out.Rating = &r
		}
	}
	return func() tea.Msg { return out }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}
