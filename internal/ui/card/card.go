// Package card renders an activity as a compact block of text shared by
// the feed list and the comment thread.
package card

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/notifygroup"
	"github.com/nhle/animefeed/internal/theme"
)

// Height is the number of lines Render produces.
const Height = 3

// Flags carries per-activity state that is not part of the Activity.
type Flags struct {
	Saved     bool
	Tentative bool
}

// Render returns the three card lines for a: header, body and counters.
func Render(a model.Activity, f Flags, width int, now time.Time) []string {
	return []string{
		truncate(header(a, now), width),
		truncate(body(a), width),
		truncate(footer(a, f), width),
	}
}

func header(a model.Activity, now time.Time) string {
	if a.IsSynthesized() {
		latest := a.Notifications[0]
		line := theme.NameStyle.Render(notifygroup.Summary(a.Notifications))
		if !latest.IsRead {
			line = theme.UnreadStyle.Render("● ") + line
		}
		return line + theme.DimmedStyle.Render(" · "+latest.CreatedAt.TimeAgo(now))
	}

	name := a.DisplayName
	if name == "" {
		name = a.Username
	}
	return fmt.Sprintf("%s %s %s%s",
		theme.NameStyle.Render(name),
		verb(a.ActivityType),
		theme.ActivityTypeStyle(string(a.ActivityType)).Render(title(a)),
		theme.DimmedStyle.Render(" · "+a.ActivityTime.TimeAgo(now)),
	)
}

func verb(t model.ActivityType) string {
	switch t {
	case model.ActivityAnimeRating, model.ActivityCharacterRating:
		return "rated"
	case model.ActivityReview:
		return "reviewed"
	case model.ActivityUserPost:
		return "posted"
	}
	return "shared"
}

func title(a model.Activity) string {
	if a.ItemTitle != "" {
		return a.ItemTitle
	}
	if a.ActivityType == model.ActivityUserPost {
		return "an update"
	}
	return fmt.Sprintf("#%d", a.ItemID)
}

func body(a model.Activity) string {
	if a.IsSynthesized() {
		for _, n := range a.Notifications {
			if n.Type == model.NotificationComment && n.CommentContent != nil {
				return theme.DimmedStyle.Render("“" + oneLine(*n.CommentContent) + "”")
			}
		}
	}
	if text := a.Body(); text != "" {
		return oneLine(text)
	}
	return theme.DimmedStyle.Render("(no text)")
}

func footer(a model.Activity, f Flags) string {
	var parts []string
	if a.Rating != nil {
		r := Stars(*a.Rating)
		if f.Tentative {
			parts = append(parts, theme.TentativeStyle.Render(r+" saving…"))
		} else {
			parts = append(parts, theme.RatingStyle.Render(r))
		}
	}

	likes := fmt.Sprintf("♥ %d", a.LikesCount)
	if a.UserLiked {
		parts = append(parts, theme.LikedStyle.Render(likes))
	} else {
		parts = append(parts, theme.DimmedStyle.Render(likes))
	}
	parts = append(parts, theme.DimmedStyle.Render(fmt.Sprintf("✎ %d", a.CommentsCount)))

	if f.Saved {
		parts = append(parts, theme.SavedStyle.Render("★ saved"))
	}
	return strings.Join(parts, "  ")
}

// Stars renders a 0..5 rating in half-star steps, e.g. "★★★½☆ 3.5".
func Stars(r float64) string {
	if r < 0 {
		r = 0
	}
	if r > 5 {
		r = 5
	}
	full := int(r)
	half := r-float64(full) >= 0.5
	var b strings.Builder
	b.WriteString(strings.Repeat("★", full))
	empty := 5 - full
	if half {
		b.WriteString("½")
		empty--
	}
	b.WriteString(strings.Repeat("☆", empty))
	fmt.Fprintf(&b, " %.1f", r)
	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
