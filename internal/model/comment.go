package model

// Comment is a comment or reply on an activity. Threads are two levels
// deep: top-level comments carry their replies, replies carry none.
type Comment struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Username        string    `json:"username,omitempty"`
	DisplayName     string    `json:"display_name,omitempty"`
	Content         string    `json:"content"`
	ParentCommentID *int64    `json:"parent_comment_id"`
	CreatedAt       Timestamp `json:"created_at"`
	LikesCount      int       `json:"likes_count"`
	UserLiked       bool      `json:"user_liked"`
	Replies         []Comment `json:"replies,omitempty"`
}

// IsReply reports whether the comment declares a parent.
func (c Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
