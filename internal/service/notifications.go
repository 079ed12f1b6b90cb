package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nhle/animefeed/internal/api"
	"github.com/nhle/animefeed/internal/model"
)

// Notifications wraps the notification endpoints.
type Notifications struct {
	client *api.Client
}

type notificationPage struct {
	Items []model.Notification `json:"items"`
}

type countResponse struct {
	Count int `json:"count"`
}

// List returns raw notifications, most recent first.
func (n *Notifications) List(ctx context.Context, limit, offset int) ([]model.Notification, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var page notificationPage
	if err := n.client.Get(ctx, "/notifications", q, &page); err != nil {
		return nil, fmt.Errorf("fetching notifications: %w", err)
	}
	return page.Items, nil
}

// MarkAllRead marks every notification as read.
func (n *Notifications) MarkAllRead(ctx context.Context) error {
	if err := n.client.Post(ctx, "/notifications/mark-read", nil, nil); err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

// UnreadCount returns the number of unread notifications.
func (n *Notifications) UnreadCount(ctx context.Context) (int, error) {
	var resp countResponse
	if err := n.client.Get(ctx, "/notifications/unread-count", nil, &resp); err != nil {
		return 0, fmt.Errorf("fetching unread count: %w", err)
	}
	return resp.Count, nil
}
