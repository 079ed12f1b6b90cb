package service

import (
	"context"
	"fmt"

	"github.com/nhle/animefeed/internal/api"
)

// Reviews wraps the review endpoints.
type Reviews struct {
	client *api.Client
}

// ReviewInput is the body for creating or updating a review.
type ReviewInput struct {
	AnimeID int64    `json:"anime_id,omitempty"`
	Content string   `json:"content"`
	Rating  *float64 `json:"rating,omitempty"`
}

// Review is a stored review row.
type Review struct {
	ID      int64    `json:"id"`
	AnimeID int64    `json:"anime_id"`
	UserID  int64    `json:"user_id"`
	Content string   `json:"content"`
	Rating  *float64 `json:"rating,omitempty"`
}

func validateReviewInput(in ReviewInput) error {
	if err := ValidateReview(in.Content); err != nil {
		return err
	}
	if in.Rating != nil {
		return ValidateRating(*in.Rating)
	}
	return nil
}

// Create writes a new review.
func (r *Reviews) Create(ctx context.Context, in ReviewInput) (*Review, error) {
	if err := validateReviewInput(in); err != nil {
		return nil, err
	}

	var out Review
	if err := r.client.Post(ctx, "/reviews", in, &out); err != nil {
		return nil, fmt.Errorf("creating review: %w", err)
	}
	return &out, nil
}

// Update replaces the content and rating of review id.
func (r *Reviews) Update(ctx context.Context, id int64, in ReviewInput) error {
	if err := validateReviewInput(in); err != nil {
		return err
	}
	if err := r.client.Put(ctx, fmt.Sprintf("/reviews/%d", id), in, nil); err != nil {
		return fmt.Errorf("updating review %d: %w", id, err)
	}
	return nil
}

// Delete removes review id.
func (r *Reviews) Delete(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, fmt.Sprintf("/reviews/%d", id), nil); err != nil {
		return fmt.Errorf("deleting review %d: %w", id, err)
	}
	return nil
}
