package feed

import (
	"context"

	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/notifygroup"
	"github.com/nhle/animefeed/internal/service"
)

// ActivityLister is the feed endpoint.
type ActivityLister interface {
	List(ctx context.Context, opts service.FeedOptions) ([]model.Activity, error)
}

// NotificationLister is the notifications endpoint.
type NotificationLister interface {
	List(ctx context.Context, limit, offset int) ([]model.Notification, error)
}

// SavedKeys reports which activity keys the user saved.
type SavedKeys interface {
	Contains(key string) bool
	Len() int
}

// FeedSource pages the activity feed, optionally restricted to followed
// users.
type FeedSource struct {
	Lister        ActivityLister
	FollowingOnly bool
}

func (s FeedSource) Fetch(ctx context.Context, limit, offset int) (Page, error) {
	items, err := s.Lister.List(ctx, service.FeedOptions{
		Limit:         limit,
		Offset:        offset,
		FollowingOnly: s.FollowingOnly,
	})
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Fetched: len(items), HasMore: len(items) == limit}, nil
}

// NotificationSource pages notifications and turns each page into one
// synthesized activity per target.
type NotificationSource struct {
	Lister NotificationLister
}

func (s NotificationSource) Fetch(ctx context.Context, limit, offset int) (Page, error) {
	ns, err := s.Lister.List(ctx, limit, offset)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Items:   notifygroup.Activities(ns),
		Fetched: len(ns),
		HasMore: len(ns) == limit,
	}, nil
}

// Merge joins the parts of a group split across pages.
func (s NotificationSource) Merge(existing, incoming model.Activity) model.Activity {
	return notifygroup.Merge(existing, incoming)
}

// maxSavedScans bounds how many feed pages one saved fetch reads while
// looking for saved activities.
const maxSavedScans = 5

// SavedSource pages the full feed and keeps only saved activities. It
// reads ahead until it has limit matches, the feed ends, or it has
// scanned maxSavedScans pages.
type SavedSource struct {
	Lister ActivityLister
	Saved  SavedKeys
}

func (s SavedSource) Fetch(ctx context.Context, limit, offset int) (Page, error) {
	if s.Saved.Len() == 0 {
		return Page{}, nil
	}

	var page Page
	for scan := 0; scan < maxSavedScans; scan++ {
		items, err := s.Lister.List(ctx, service.FeedOptions{Limit: limit, Offset: offset + page.Fetched})
		if err != nil {
			if page.Fetched > 0 {
				// Keep what was found; the next LoadMore resumes here.
				page.HasMore = true
				return page, nil
			}
			return Page{}, err
		}
		page.Fetched += len(items)
		for _, a := range items {
			if s.Saved.Contains(a.Key()) {
				page.Items = append(page.Items, a)
			}
		}
		page.HasMore = len(items) == limit
		if !page.HasMore || len(page.Items) >= limit {
			break
		}
	}
	return page, nil
}
