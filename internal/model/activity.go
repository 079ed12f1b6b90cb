package model

import (
	"fmt"
	"strings"
)

// ActivityType identifies what kind of user-generated event an Activity is.
type ActivityType string

const (
	ActivityAnimeRating     ActivityType = "anime_rating"
	ActivityCharacterRating ActivityType = "character_rating"
	ActivityReview          ActivityType = "review"
	ActivityUserPost        ActivityType = "user_post"
)

// Valid reports whether t is one of the known activity types.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityAnimeRating, ActivityCharacterRating, ActivityReview, ActivityUserPost:
		return true
	}
	return false
}

// ReviewType returns the review_type query value used by the comment
// endpoints for activities of this type.
func (t ActivityType) ReviewType() string {
	switch t {
	case ActivityCharacterRating:
		return "character"
	case ActivityUserPost:
		return "post"
	default:
		return "anime"
	}
}

// keySeparator never appears in an ActivityType or a decimal id.
const keySeparator = "|"

// Activity is one rating, review, or post as shown in a feed.
type Activity struct {
	// ActivityType, UserID and ItemID together form the identity.
	ActivityType ActivityType `json:"activity_type"`
	UserID       int64        `json:"user_id"`
	ItemID       int64        `json:"item_id"`

	// Actor display snapshot.
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`

	// Target display snapshot (anime, character, or post).
	ItemTitle string `json:"item_title,omitempty"`
	ItemImage string `json:"item_image,omitempty"`

	Rating        *float64 `json:"rating,omitempty"`
	ReviewContent *string  `json:"review_content,omitempty"`
	PostContent   *string  `json:"post_content,omitempty"`
	ReviewID      *int64   `json:"review_id,omitempty"`

	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	UserLiked     bool      `json:"user_liked"`
	ActivityTime  Timestamp `json:"activity_time"`

	// Notifications is set only on records synthesized from a
	// notification group: the deduplicated events, newest first.
	Notifications []Notification `json:"-"`
}

// Key returns the activity's composite identity.
func (a Activity) Key() string {
	return ActivityKey(a.ActivityType, a.UserID, a.ItemID)
}

// ActivityKey builds the identity string for (activityType, userID, itemID).
func ActivityKey(activityType ActivityType, userID, itemID int64) string {
	return fmt.Sprintf("%s%s%d%s%d", activityType, keySeparator, userID, keySeparator, itemID)
}

// ParseActivityKey splits a key produced by ActivityKey.
func ParseActivityKey(key string) (ActivityType, int64, int64, error) {
	parts := strings.Split(key, keySeparator)
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("malformed activity key %q", key)
	}

	var userID, itemID int64
	if _, err := fmt.Sscan(parts[1], &userID); err != nil {
		return "", 0, 0, fmt.Errorf("malformed user id in key %q: %w", key, err)
	}
	if _, err := fmt.Sscan(parts[2], &itemID); err != nil {
		return "", 0, 0, fmt.Errorf("malformed item id in key %q: %w", key, err)
	}

	return ActivityType(parts[0]), userID, itemID, nil
}

// CommentTargetID returns the id the comment endpoints are keyed by: the
// backing review row, or the post itself for user posts. A rating with no
// review row has no thread and reports false.
func (a Activity) CommentTargetID() (int64, bool) {
	switch {
	case a.ReviewID != nil:
		return *a.ReviewID, true
	case a.ActivityType == ActivityUserPost:
		return a.ItemID, true
	}
	return 0, false
}

// Body returns the free text attached to the activity, if any.
func (a Activity) Body() string {
	switch {
	case a.ReviewContent != nil:
		return *a.ReviewContent
	case a.PostContent != nil:
		return *a.PostContent
	}
	return ""
}

// IsSynthesized reports whether the record was built from notifications
// rather than fetched from the feed.
func (a Activity) IsSynthesized() bool {
	return len(a.Notifications) > 0
}

// ActivityPatch is a partial update applied to a cached Activity.
// Nil fields are left untouched.
type ActivityPatch struct {
	Rating        *float64
	ReviewContent *string
	PostContent   *string
	LikesCount    *int
	CommentsCount *int
	UserLiked     *bool
}

// Apply returns a copy of a with the patch's non-nil fields set.
func (p ActivityPatch) Apply(a Activity) Activity {
	if p.Rating != nil {
		r := *p.Rating
		a.Rating = &r
	}
	if p.ReviewContent != nil {
		s := *p.ReviewContent
		a.ReviewContent = &s
	}
	if p.PostContent != nil {
		s := *p.PostContent
		a.PostContent = &s
	}
	if p.LikesCount != nil {
		a.LikesCount = *p.LikesCount
	}
	if p.CommentsCount != nil {
		a.CommentsCount = *p.CommentsCount
	}
	if p.UserLiked != nil {
		a.UserLiked = *p.UserLiked
	}
	return a
}

// Revert returns cur with only the fields the patch sets copied back from
// before. Fields the patch leaves alone keep their current values.
func (p ActivityPatch) Revert(cur, before Activity) Activity {
	if p.Rating != nil {
		cur.Rating = before.Rating
	}
	if p.ReviewContent != nil {
		cur.ReviewContent = before.ReviewContent
	}
	if p.PostContent != nil {
		cur.PostContent = before.PostContent
	}
	if p.LikesCount != nil {
		cur.LikesCount = before.LikesCount
	}
	if p.CommentsCount != nil {
		cur.CommentsCount = before.CommentsCount
	}
	if p.UserLiked != nil {
		cur.UserLiked = before.UserLiked
	}
	return cur
}
