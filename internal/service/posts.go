package service

import (
	"context"
	"fmt"

	"github.com/nhle/animefeed/internal/api"
)

// Posts wraps the user post endpoints.
type Posts struct {
	client *api.Client
}

// Post is a stored user post.
type Post struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"user_id"`
	Content string `json:"content"`
}

type postBody struct {
	Content string `json:"content"`
}

// Create publishes a new post.
func (p *Posts) Create(ctx context.Context, content string) (*Post, error) {
	if err := ValidatePost(content); err != nil {
		return nil, err
	}

	var out Post
	if err := p.client.Post(ctx, "/posts", postBody{Content: content}, &out); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	return &out, nil
}

// Update replaces the content of post id.
func (p *Posts) Update(ctx context.Context, id int64, content string) error {
	if err := ValidatePost(content); err != nil {
		return err
	}
	if err := p.client.Put(ctx, fmt.Sprintf("/posts/%d", id), postBody{Content: content}, nil); err != nil {
		return fmt.Errorf("updating post %d: %w", id, err)
	}
	return nil
}

// Delete removes post id.
func (p *Posts) Delete(ctx context.Context, id int64) error {
	if err := p.client.Delete(ctx, fmt.Sprintf("/posts/%d", id), nil); err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}
	return nil
}
