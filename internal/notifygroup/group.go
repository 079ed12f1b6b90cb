// Package notifygroup collapses raw notifications into one display group
// per target activity and renders each group as a feed activity.
package notifygroup

import (
	"fmt"
	"sort"

	"github.com/nhle/animefeed/internal/model"
)

// Target identifies the activity a group of notifications is about.
type Target struct {
	ActivityType model.ActivityType
	ItemID       int64
}

// Group is the notifications for one target, at most one per
// (actor, type) pair, newest first.
type Group struct {
	Target        Target
	Notifications []model.Notification
}

// Latest returns the group's most recent notification.
func (g Group) Latest() model.Notification {
	return g.Notifications[0]
}

type actorKey struct {
	actor int64
	typ   model.NotificationType
}

// Build groups notifications by target. Input is expected newest first,
// as delivered by the server; groups are returned ordered by their latest
// notification, newest first, ties keeping input order.
func Build(notifications []model.Notification) []Group {
	var order []Target
	byTarget := make(map[Target][]model.Notification)

	for _, n := range notifications {
		t := Target{ActivityType: n.ActivityType, ItemID: n.ItemID}
		if _, seen := byTarget[t]; !seen {
			order = append(order, t)
		}
		byTarget[t] = append(byTarget[t], n)
	}

	groups := make([]Group, 0, len(order))
	for _, t := range order {
		groups = append(groups, Group{
			Target:        t,
			Notifications: dedupe(byTarget[t]),
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Latest().CreatedAt.After(groups[j].Latest().CreatedAt.Time)
	})
	return groups
}

// dedupe keeps the latest notification per (actor, type) and sorts the
// survivors newest first. On equal timestamps the earlier input wins.
func dedupe(ns []model.Notification) []model.Notification {
	var order []actorKey
	best := make(map[actorKey]model.Notification)

	for _, n := range ns {
		k := actorKey{actor: n.ActorUserID, typ: n.Type}
		cur, seen := best[k]
		if !seen {
			order = append(order, k)
			best[k] = n
			continue
		}
		if n.CreatedAt.After(cur.CreatedAt.Time) {
			best[k] = n
		}
	}

	out := make([]model.Notification, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt.Time)
	})
	return out
}

// Activity synthesizes a feed activity from the group's latest
// notification so it renders like any other activity. The group's
// notifications ride along for the "N people liked" summary.
func (g Group) Activity() model.Activity {
	latest := g.Latest()

	likers, commenters := g.counts()
	likes := likers
	if latest.LikesCount != nil {
		likes = *latest.LikesCount
	}
	comments := commenters
	if latest.CommentsCount != nil {
		comments = *latest.CommentsCount
	}

	return model.Activity{
		ActivityType:  g.Target.ActivityType,
		UserID:        latest.TargetUserID,
		ItemID:        g.Target.ItemID,
		ItemTitle:     latest.ItemTitle,
		ItemImage:     latest.ItemImage,
		Rating:        latest.Rating,
		ReviewContent: latest.ReviewContent,
		PostContent:   latest.PostContent,
		ReviewID:      latest.ReviewID,
		LikesCount:    likes,
		CommentsCount: comments,
		ActivityTime:  latest.CreatedAt,
		Notifications: append([]model.Notification(nil), g.Notifications...),
	}
}

func (g Group) counts() (likes, comments int) {
	for _, n := range g.Notifications {
		switch n.Type {
		case model.NotificationLike:
			likes++
		case model.NotificationComment:
			comments++
		}
	}
	return likes, comments
}

// Activities groups notifications and synthesizes one activity per group.
func Activities(notifications []model.Notification) []model.Activity {
	groups := Build(notifications)
	out := make([]model.Activity, len(groups))
	for i, g := range groups {
		out[i] = g.Activity()
	}
	return out
}

// Merge folds a group that arrived on a later page into the one already
// shown for the same target. The union is deduped again and the latest
// notification drives the result. Notifications already held win over
// equal-timestamp duplicates from incoming, and the local like state is
// kept. If either side is not synthesized, existing is returned as is.
func Merge(existing, incoming model.Activity) model.Activity {
	if !existing.IsSynthesized() || !incoming.IsSynthesized() {
		return existing
	}
	all := make([]model.Notification, 0, len(existing.Notifications)+len(incoming.Notifications))
	all = append(all, existing.Notifications...)
	all = append(all, incoming.Notifications...)

	g := Group{
		Target:        Target{ActivityType: existing.ActivityType, ItemID: existing.ItemID},
		Notifications: dedupe(all),
	}
	merged := g.Activity()
	merged.UserLiked = existing.UserLiked
	return merged
}

// Summary describes who interacted, e.g. "mika and 2 others liked your review".
func Summary(ns []model.Notification) string {
	if len(ns) == 0 {
		return ""
	}

	var likers, commenters []string
	for _, n := range ns {
		switch n.Type {
		case model.NotificationLike:
			likers = append(likers, n.ActorName())
		case model.NotificationComment:
			commenters = append(commenters, n.ActorName())
		}
	}

	target := targetNoun(ns[0].ActivityType)
	switch {
	case len(likers) > 0 && len(commenters) > 0:
		return fmt.Sprintf("%s liked and %s commented on your %s",
			people(likers), people(commenters), target)
	case len(likers) > 0:
		return fmt.Sprintf("%s liked your %s", people(likers), target)
	default:
		return fmt.Sprintf("%s commented on your %s", people(commenters), target)
	}
}

func people(names []string) string {
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return fmt.Sprintf("%s and %d others", names[0], len(names)-1)
	}
}

func targetNoun(t model.ActivityType) string {
	switch t {
	case model.ActivityAnimeRating, model.ActivityCharacterRating:
		return "rating"
	case model.ActivityReview:
		return "review"
	case model.ActivityUserPost:
		return "post"
	}
	return "activity"
}
