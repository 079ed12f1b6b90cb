package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/animefeed/internal/feed"
	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/service"
	"github.com/nhle/animefeed/internal/ui/compose"
	"github.com/nhle/animefeed/internal/ui/login"
)

// storeChangedMsg is sent when the feed store published a change.
type storeChangedMsg struct{}

// resultMsg reports the outcome of a background action. Info is shown
// in the status bar on success; Silent errors are only logged.
type resultMsg struct {
	op     string
	err    error
	info   string
	silent bool
}

// signedInMsg is sent once a session is established.
type signedInMsg struct {
	user model.User
}

// signInPromptMsg asks for the sign-in form to be shown.
type signInPromptMsg struct {
	message string
}

// signInFailedMsg is sent when login or registration is rejected.
type signInFailedMsg struct {
	err error
}

// savedReloadedMsg is sent after the saved set was re-read from disk.
type savedReloadedMsg struct{}

// followingLoadedMsg carries the ids of users the signed-in user follows.
type followingLoadedMsg struct {
	ids map[int64]bool
}

// followToggledMsg reports a follow or unfollow that succeeded.
type followToggledMsg struct {
	userID    int64
	following bool
}

// waitForStoreChange returns a command that blocks until the store
// signals a change.
func (m Model) waitForStoreChange() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// run wraps a feed operation into a command producing a resultMsg.
func (m Model) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{op: op, err: fn(ctx)}
	}
}

func (m Model) activate(f feed.Filter) tea.Cmd {
	pages := m.feed.Pages
	return m.run("load "+string(f), func(ctx context.Context) error {
		return pages.Activate(ctx, f)
	})
}

func (m Model) refresh(f feed.Filter) tea.Cmd {
	pages := m.feed.Pages
	return m.run("refresh "+string(f), func(ctx context.Context) error {
		return pages.Refresh(ctx, f)
	})
}

func (m Model) loadMore(f feed.Filter) tea.Cmd {
	pages := m.feed.Pages
	return m.run("load more", func(ctx context.Context) error {
		err := pages.LoadMore(ctx, f)
		if errors.Is(err, feed.ErrLoadInFlight) || errors.Is(err, feed.ErrNoMorePages) {
			return nil
		}
		return err
	})
}

func (m Model) reloadSaved() tea.Cmd {
	saved := m.saved
	ctx := m.ctx
	log := m.log
	return func() tea.Msg {
		if err := saved.Reload(ctx); err != nil {
			log.Warn("reloading saved set failed", zap.Error(err))
		}
		return savedReloadedMsg{}
	}
}

func (m Model) loadFollowing(userID int64) tea.Cmd {
	follows := m.follows
	ctx := m.ctx
	log := m.log
	return func() tea.Msg {
		users, err := follows.Following(ctx, userID)
		if err != nil {
			log.Warn("loading followed users failed", zap.Error(err))
			return nil
		}
		ids := make(map[int64]bool, len(users))
		for _, u := range users {
			ids[u.ID] = true
		}
		return followingLoadedMsg{ids: ids}
	}
}

func (m Model) toggleFollow(userID int64) tea.Cmd {
	follows := m.follows
	ctx := m.ctx
	following := m.following[userID]
	return func() tea.Msg {
		var err error
		if following {
			err = follows.Unfollow(ctx, userID)
		} else {
			err = follows.Follow(ctx, userID)
		}
		if err != nil {
			return resultMsg{op: "follow", err: err}
		}
		return followToggledMsg{userID: userID, following: !following}
	}
}

func (m Model) markAllRead() tea.Cmd {
	n := m.notifications
	return m.run("mark read", func(ctx context.Context) error {
		if err := n.MarkAllRead(ctx); err != nil {
			return err
		}
		m.poller.Refresh()
		return nil
	})
}

func (m Model) signIn(msg login.SubmitMsg) tea.Cmd {
	auth := m.auth
	session := m.session
	ctx := m.ctx
	return func() tea.Msg {
		var (
			tok *service.TokenResponse
			err error
		)
		if msg.Register {
			tok, err = auth.Register(ctx, msg.Username, msg.Email, msg.Password)
		} else {
			tok, err = auth.Login(ctx, msg.Username, msg.Password)
		}
		if err != nil {
			return signInFailedMsg{err: err}
		}

		user := tok.User
		if err := session.Store(tok.AccessToken, user); err != nil {
			return signInFailedMsg{err: err}
		}
		if user.ID == 0 {
			me, err := auth.Me(ctx)
			if err != nil {
				return signInFailedMsg{err: err}
			}
			user = *me
			if err := session.Store(tok.AccessToken, user); err != nil {
				return signInFailedMsg{err: err}
			}
		}
		return signedInMsg{user: user}
	}
}

// submit performs the action a completed compose form asked for.
func (m Model) submit(msg compose.SubmitMsg) tea.Cmd {
	actions := m.feed.Actions
	switch msg.Kind {
	case compose.KindComment:
		return m.run("comment", func(ctx context.Context) error {
			_, err := actions.AddComment(ctx, msg.Key, msg.Text)
			return err
		})

	case compose.KindReply:
		return m.run("reply", func(ctx context.Context) error {
			_, err := actions.AddReply(ctx, msg.Key, msg.ParentID, msg.Text)
			return err
		})

	case compose.KindRate:
		if msg.Rating == nil {
			return nil
		}
		return m.run("rate", func(ctx context.Context) error {
			return actions.Rate(ctx, msg.Key, *msg.Rating)
		})

	case compose.KindEdit:
		edit := service.ActivityEdit{Rating: msg.Rating}
		if msg.Text != "" {
			text := msg.Text
			edit.Content = &text
		}
		return m.run("edit", func(ctx context.Context) error {
			return actions.Edit(ctx, msg.Key, edit)
		})

	case compose.KindPost:
		posts := m.posts
		pages := m.feed.Pages
		return func() tea.Msg {
			if _, err := posts.Create(m.ctx, msg.Text); err != nil {
				return resultMsg{op: "post", err: err}
			}
			if err := pages.Refresh(m.ctx, feed.FilterAll); err != nil {
				return resultMsg{op: "refresh all", err: err}
			}
			return resultMsg{op: "post", info: "Posted."}
		}
	}
	return nil
}

// describe formats a failed operation for the status bar.
func describe(op string, err error) string {
	return fmt.Sprintf("%s failed: %s", op, userMessage(err))
}
