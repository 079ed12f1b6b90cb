package service

import (
	"context"
	"fmt"

	"github.com/nhle/animefeed/internal/api"
	"github.com/nhle/animefeed/internal/model"
)

// Follows wraps the follow graph endpoints.
type Follows struct {
	client *api.Client
}

type followStatus struct {
	IsFollowing bool `json:"is_following"`
}

// Follow starts following userID.
func (f *Follows) Follow(ctx context.Context, userID int64) error {
	if err := f.client.Post(ctx, fmt.Sprintf("/follows/%d", userID), nil, nil); err != nil {
		return fmt.Errorf("following user %d: %w", userID, err)
	}
	return nil
}

// Unfollow stops following userID.
func (f *Follows) Unfollow(ctx context.Context, userID int64) error {
	if err := f.client.Delete(ctx, fmt.Sprintf("/follows/%d", userID), nil); err != nil {
		return fmt.Errorf("unfollowing user %d: %w", userID, err)
	}
	return nil
}

// IsFollowing reports whether the caller follows userID.
func (f *Follows) IsFollowing(ctx context.Context, userID int64) (bool, error) {
	var status followStatus
	if err := f.client.Get(ctx, fmt.Sprintf("/follows/%d/status", userID), nil, &status); err != nil {
		return false, fmt.Errorf("checking follow status for %d: %w", userID, err)
	}
	return status.IsFollowing, nil
}

// Following lists the users userID follows.
func (f *Follows) Following(ctx context.Context, userID int64) ([]model.User, error) {
	var users []model.User
	if err := f.client.Get(ctx, fmt.Sprintf("/follows/%d/following", userID), nil, &users); err != nil {
		return nil, fmt.Errorf("listing following for %d: %w", userID, err)
	}
	return users, nil
}
