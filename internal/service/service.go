// Package service holds one thin wrapper per API resource. Each method
// translates into a single HTTP request through api.Client.
package service

import (
	"github.com/nhle/animefeed/internal/api"
)

// Services bundles every resource wrapper over one client.
type Services struct {
	Auth          *Auth
	Feed          *Feed
	Notifications *Notifications
	Comments      *Comments
	Likes         *Likes
	Follows       *Follows
	Ratings       *Ratings
	Reviews       *Reviews
	Posts         *Posts
	Activities    *Activities
}

// New wires all services to c.
func New(c *api.Client) *Services {
	s := &Services{
		Auth:          &Auth{client: c},
		Feed:          &Feed{client: c},
		Notifications: &Notifications{client: c},
		Comments:      &Comments{client: c},
		Likes:         &Likes{client: c},
		Follows:       &Follows{client: c},
		Ratings:       &Ratings{client: c},
		Reviews:       &Reviews{client: c},
		Posts:         &Posts{client: c},
	}
	s.Activities = &Activities{ratings: s.Ratings, reviews: s.Reviews, posts: s.Posts}
	return s
}
