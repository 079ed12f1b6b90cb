package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nhle/animefeed/internal/api"
	"github.com/nhle/animefeed/internal/model"
)

// Feed wraps the activity feed endpoint.
type Feed struct {
	client *api.Client
}

// FeedOptions controls pagination and scope of a feed request.
type FeedOptions struct {
	Limit         int
	Offset        int
	FollowingOnly bool
}

// List returns one page of activities in server order.
func (f *Feed) List(ctx context.Context, opts FeedOptions) ([]model.Activity, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(opts.Limit))
	q.Set("offset", strconv.Itoa(opts.Offset))
	if opts.FollowingOnly {
		q.Set("following_only", "true")
	}

	var items []model.Activity
	if err := f.client.Get(ctx, "/feed", q, &items); err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	return items, nil
}
