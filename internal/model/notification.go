package model

// NotificationType is the kind of interaction a notification reports.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
)

// Notification is a single raw event delivered by the notifications
// endpoint, with denormalized snapshots of the actor and the target
// activity.
type Notification struct {
	ID           int64            `json:"id"`
	Type         NotificationType `json:"type"`
	ActorUserID  int64            `json:"actor_user_id"`
	ActivityType ActivityType     `json:"activity_type"`
	ItemID       int64            `json:"item_id"`
	TargetUserID int64            `json:"target_user_id"`

	// Actor display snapshot.
	ActorUsername    string `json:"actor_username,omitempty"`
	ActorDisplayName string `json:"actor_display_name,omitempty"`
	ActorAvatarURL   string `json:"actor_avatar_url,omitempty"`

	// Target activity snapshot.
	ItemTitle      string   `json:"item_title,omitempty"`
	ItemImage      string   `json:"item_image,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	ReviewContent  *string  `json:"review_content,omitempty"`
	PostContent    *string  `json:"post_content,omitempty"`
	ReviewID       *int64   `json:"review_id,omitempty"`
	CommentContent *string  `json:"comment_content,omitempty"`
	LikesCount     *int     `json:"likes_count,omitempty"`
	CommentsCount  *int     `json:"comments_count,omitempty"`

	IsRead    bool      `json:"is_read"`
	CreatedAt Timestamp `json:"created_at"`
}

// TargetKey is the activity key of the notification's target.
func (n Notification) TargetKey() string {
	return ActivityKey(n.ActivityType, n.TargetUserID, n.ItemID)
}

// ActorName returns the best available display name for the actor.
func (n Notification) ActorName() string {
	if n.ActorDisplayName != "" {
		return n.ActorDisplayName
	}
	return n.ActorUsername
}
