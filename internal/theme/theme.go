package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ErrorBarStyle replaces the status bar while an error message is shown.
var ErrorBarStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1)

// PanelStyle wraps the thread, help and form views.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

var (
	TabStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue).
			Underline(true).
			Padding(0, 1)
)

// CardStyle is the base style for an activity card in the feed.
var CardStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedCardStyle highlights the focused activity card.
var SelectedCardStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard hints and secondary text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

var (
	NameStyle      = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite)
	DimmedStyle    = lipgloss.NewStyle().Foreground(ColorGray)
	LikedStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	SavedStyle     = lipgloss.NewStyle().Foreground(ColorYellow)
	RatingStyle    = lipgloss.NewStyle().Foreground(ColorYellow)
	TentativeStyle = lipgloss.NewStyle().Foreground(ColorGray).Italic(true)
	UnreadStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorOrange)
)

// ActivityTypeStyle returns a color-coded label style for an activity type.
func ActivityTypeStyle(activityType string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch activityType {
	case "anime_rating":
		return base.Foreground(ColorBlue)
	case "character_rating":
		return base.Foreground(ColorMagenta)
	case "review":
		return base.Foreground(ColorGreen)
	case "user_post":
		return base.Foreground(ColorOrange)
	default:
		return base.Foreground(ColorGray)
	}
}
