package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nhle/animefeed/internal/api"
	"github.com/nhle/animefeed/internal/model"
)

// Likes wraps the like endpoints for activities and comments.
type Likes struct {
	client *api.Client
}

type activityLikeBody struct {
	ActivityType model.ActivityType `json:"activity_type"`
	UserID       int64              `json:"user_id"`
	ItemID       int64              `json:"item_id"`
}

// LikeActivity likes the activity identified by a's key fields.
func (l *Likes) LikeActivity(ctx context.Context, a model.Activity) error {
	body := activityLikeBody{ActivityType: a.ActivityType, UserID: a.UserID, ItemID: a.ItemID}
	if err := l.client.Post(ctx, "/likes", body, nil); err != nil {
		return fmt.Errorf("liking %s: %w", a.Key(), err)
	}
	return nil
}

// UnlikeActivity removes the caller's like from the activity.
func (l *Likes) UnlikeActivity(ctx context.Context, a model.Activity) error {
	q := url.Values{}
	q.Set("activity_type", string(a.ActivityType))
	q.Set("user_id", strconv.FormatInt(a.UserID, 10))
	q.Set("item_id", strconv.FormatInt(a.ItemID, 10))

	if err := l.client.Delete(ctx, "/likes?"+q.Encode(), nil); err != nil {
		return fmt.Errorf("unliking %s: %w", a.Key(), err)
	}
	return nil
}

// LikeComment likes a comment.
func (l *Likes) LikeComment(ctx context.Context, commentID int64) error {
	if err := l.client.Post(ctx, fmt.Sprintf("/comments/%d/like", commentID), nil, nil); err != nil {
		return fmt.Errorf("liking comment %d: %w", commentID, err)
	}
	return nil
}

// UnlikeComment removes the caller's like from a comment.
func (l *Likes) UnlikeComment(ctx context.Context, commentID int64) error {
	if err := l.client.Delete(ctx, fmt.Sprintf("/comments/%d/like", commentID), nil); err != nil {
		return fmt.Errorf("unliking comment %d: %w", commentID, err)
	}
	return nil
}
