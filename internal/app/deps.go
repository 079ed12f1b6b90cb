package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/animefeed/internal/feed"
	"github.com/nhle/animefeed/internal/logging"
	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/service"
)

// Session is the persisted sign-in state.
type Session interface {
	SignedIn() bool
	User() *model.User
	Store(token string, user model.User) error
	Clear() error
}

// Authenticator signs the user in or up.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*service.TokenResponse, error)
	Register(ctx context.Context, username, email, password string) (*service.TokenResponse, error)
	Me(ctx context.Context) (*model.User, error)
}

// Follows manages who the user follows.
type Follows interface {
	Follow(ctx context.Context, userID int64) error
	Unfollow(ctx context.Context, userID int64) error
	Following(ctx context.Context, userID int64) ([]model.User, error)
}

// Posts publishes new posts.
type Posts interface {
	Create(ctx context.Context, content string) (*service.Post, error)
}

// NotificationMarker marks notifications read.
type NotificationMarker interface {
	MarkAllRead(ctx context.Context) error
}

// SavedSet is the persisted saved set as the UI needs it.
type SavedSet interface {
	Reload(ctx context.Context) error
	Contains(key string) bool
}

// Poller delivers the unread count.
type Poller interface {
	Start() tea.Cmd
	Stop()
	Refresh()
	WaitForNextResult() tea.Cmd
}

// Deps are everything the root model talks to.
type Deps struct {
	Session       Session
	Auth          Authenticator
	Follows       Follows
	Posts         Posts
	Notifications NotificationMarker
	Saved         SavedSet
	Feed          *feed.Feed
	Poller        Poller
	Logger        *logging.Logger

	// Now is the clock used for relative times; time.Now when nil.
	Now func() time.Time
}
