package service

import (
	"context"
	"fmt"

	"github.com/nhle/animefeed/internal/model"
)

// Activities routes edit and delete of a feed activity to the resource
// that backs its type.
type Activities struct {
	ratings *Ratings
	reviews *Reviews
	posts   *Posts
}

// ActivityEdit carries the new values for an activity. Only the fields
// meaningful for the activity's type are used.
type ActivityEdit struct {
	Rating  *float64
	Content *string
}

// Edit updates the resource behind a.
func (s *Activities) Edit(ctx context.Context, a model.Activity, edit ActivityEdit) error {
	switch a.ActivityType {
	case model.ActivityAnimeRating:
		if edit.Rating == nil {
			return &ValidationError{Field: "rating", Message: "is required"}
		}
		return s.ratings.RateAnime(ctx, a.ItemID, *edit.Rating)

	case model.ActivityCharacterRating:
		if edit.Rating == nil {
			return &ValidationError{Field: "rating", Message: "is required"}
		}
		return s.ratings.RateCharacter(ctx, a.ItemID, *edit.Rating)

	case model.ActivityReview:
		if a.ReviewID == nil {
			return fmt.Errorf("activity %s has no review id", a.Key())
		}
		in := ReviewInput{Content: a.Body(), Rating: a.Rating}
		if edit.Content != nil {
			in.Content = *edit.Content
		}
		if edit.Rating != nil {
			in.Rating = edit.Rating
		}
		return s.reviews.Update(ctx, *a.ReviewID, in)

	case model.ActivityUserPost:
		if edit.Content == nil {
			return &ValidationError{Field: "post", Message: "is required"}
		}
		return s.posts.Update(ctx, a.ItemID, *edit.Content)
	}

	return fmt.Errorf("unsupported activity type %q", a.ActivityType)
}

// Delete removes the resource behind a.
func (s *Activities) Delete(ctx context.Context, a model.Activity) error {
	switch a.ActivityType {
	case model.ActivityAnimeRating:
		return s.ratings.DeleteAnimeRating(ctx, a.ItemID)
	case model.ActivityCharacterRating:
		return s.ratings.DeleteCharacterRating(ctx, a.ItemID)
	case model.ActivityReview:
		if a.ReviewID == nil {
			return fmt.Errorf("activity %s has no review id", a.Key())
		}
		return s.reviews.Delete(ctx, *a.ReviewID)
	case model.ActivityUserPost:
		return s.posts.Delete(ctx, a.ItemID)
	}

	return fmt.Errorf("unsupported activity type %q", a.ActivityType)
}
