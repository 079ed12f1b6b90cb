package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nhle/animefeed/internal/api"
	"github.com/nhle/animefeed/internal/model"
)

// Comments wraps the comment endpoints.
type Comments struct {
	client *api.Client
}

// NewComment is the body of a create-comment request. ParentCommentID is
// set for replies.
type NewComment struct {
	ReviewID        int64  `json:"review_id"`
	ReviewType      string `json:"review_type"`
	Content         string `json:"content"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
}

// List returns the comments on a review or post. The server may answer
// with a flat list or with replies already nested.
func (c *Comments) List(ctx context.Context, targetID int64, reviewType string) ([]model.Comment, error) {
	q := url.Values{}
	q.Set("review_type", reviewType)

	var comments []model.Comment
	path := fmt.Sprintf("/comments/review/%d", targetID)
	if err := c.client.Get(ctx, path, q, &comments); err != nil {
		return nil, fmt.Errorf("fetching comments for %d: %w", targetID, err)
	}
	return comments, nil
}

// Create posts a comment or reply and returns the stored row.
func (c *Comments) Create(ctx context.Context, in NewComment) (*model.Comment, error) {
	if err := ValidateComment(in.Content); err != nil {
		return nil, err
	}

	var created model.Comment
	if err := c.client.Post(ctx, "/comments", in, &created); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	return &created, nil
}

// Delete removes a comment. The server deletes its replies with it.
func (c *Comments) Delete(ctx context.Context, id int64) error {
	if err := c.client.Delete(ctx, fmt.Sprintf("/comments/%d", id), nil); err != nil {
		return fmt.Errorf("deleting comment %d: %w", id, err)
	}
	return nil
}
