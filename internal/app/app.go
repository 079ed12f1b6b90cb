package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/animefeed/internal/api"
	"github.com/nhle/animefeed/internal/feed"
	"github.com/nhle/animefeed/internal/logging"
	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/service"
	appsync "github.com/nhle/animefeed/internal/sync"
	"github.com/nhle/animefeed/internal/ui"
	"github.com/nhle/animefeed/internal/ui/card"
	"github.com/nhle/animefeed/internal/ui/command"
	"github.com/nhle/animefeed/internal/ui/compose"
	"github.com/nhle/animefeed/internal/ui/feedlist"
	helpview "github.com/nhle/animefeed/internal/ui/help"
	"github.com/nhle/animefeed/internal/ui/login"
	"github.com/nhle/animefeed/internal/ui/thread"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewFeed
	ViewThread
	ViewCompose
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model. It routes keys to the active view,
// runs feed actions as commands and re-renders on store changes.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *KeyMap
	ready        bool

	feedList    feedlist.Model
	thread      thread.Model
	compose     compose.Model
	login       login.Model
	helpView    helpview.Model
	commandView command.Model

	feed          *feed.Feed
	session       Session
	auth          Authenticator
	follows       Follows
	posts         Posts
	notifications NotificationMarker
	saved         SavedSet
	poller        Poller
	log           *logging.Logger
	now           func() time.Time

	ctx         context.Context
	cancel      context.CancelFunc
	changes     chan struct{}
	unsubscribe func()

	user          *model.User
	following     map[int64]bool
	unreadCount   int
	statusMessage string
	errMessage    string
	pendingDelete string
}

// New creates the root model. Store changes are forwarded to the UI
// until the program quits.
func New(d Deps) Model {
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	k := DefaultKeyMap()
	ctx, cancel := context.WithCancel(context.Background())

	changes := make(chan struct{}, 1)
	unsubscribe := d.Feed.Store.Subscribe(func(feed.Event) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	store := d.Feed.Store
	saved := d.Saved
	flags := func(key string) card.Flags {
		return card.Flags{Saved: saved.Contains(key), Tentative: store.IsTentative(key)}
	}

	return Model{
		currentView:   ViewLogin,
		keys:          k,
		feedList:      feedlist.New(flags, d.Now, 80, 24),
		thread:        thread.New(k, d.Now, 80, 24),
		compose:       compose.New(80, 24),
		login:         login.New(80, 24),
		helpView:      helpview.New(k, 80, 24),
		commandView:   command.New(80, 24),
		feed:          d.Feed,
		session:       d.Session,
		auth:          d.Auth,
		follows:       d.Follows,
		posts:         d.Posts,
		notifications: d.Notifications,
		saved:         d.Saved,
		poller:        d.Poller,
		log:           d.Logger,
		now:           d.Now,
		ctx:           ctx,
		cancel:        cancel,
		changes:       changes,
		unsubscribe:   unsubscribe,
		following:     make(map[int64]bool),
	}
}

// Init starts listening for store changes and resumes a stored session
// or asks the user to sign in.
func (m Model) Init() tea.Cmd {
	if m.session.SignedIn() {
		if u := m.session.User(); u != nil {
			user := *u
			return tea.Batch(
				m.waitForStoreChange(),
				func() tea.Msg { return signedInMsg{user: user} },
			)
		}
	}
	return tea.Batch(m.waitForStoreChange(), func() tea.Msg { return signInPromptMsg{} })
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.feedList.SetSize(w, h)
		m.thread.SetSize(w, h)
		m.compose.SetSize(w, h)
		m.login.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case tea.FocusMsg:
		return m, m.reloadSaved()

	case signedInMsg:
		return m.startSession(msg.user)

	case signInPromptMsg:
		return m, m.login.Start(msg.message)

	case signInFailedMsg:
		m.log.Info("sign in failed", zap.Error(msg.err))
		return m, m.login.Start(userMessage(msg.err))

	case login.CancelMsg:
		return m.quit()

	case storeChangedMsg:
		m.syncViews()
		return m, m.waitForStoreChange()

	case savedReloadedMsg:
		m.syncViews()
		return m, nil

	case followingLoadedMsg:
		m.following = msg.ids
		return m, nil

	case followToggledMsg:
		m.following[msg.userID] = msg.following
		m.feed.Store.Reset(feed.FilterFollowing)
		if msg.following {
			m.statusMessage = "Followed."
		} else {
			m.statusMessage = "Unfollowed."
		}
		return m, nil

	case appsync.UnreadCountMsg:
		m.unreadCount = msg.Count
		return m, m.poller.WaitForNextResult()

	case appsync.AuthErrorMsg:
		return m.signOut(msg.Message)

	case resultMsg:
		return m.handleResult(msg)

	case feedlist.LoadMoreMsg:
		return m, m.loadMore(msg.Filter)

	case thread.BackMsg:
		m.currentView = ViewFeed
		return m, nil

	case thread.ActionMsg:
		return m.handleThreadAction(msg)

	case compose.SubmitMsg:
		m.currentView = m.previousView
		return m, m.submit(msg)

	case compose.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case login.SubmitMsg:
		return m, m.signIn(msg)

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.currentView == ViewFeed || m.currentView == ViewThread {
			m.errMessage = ""
			m.statusMessage = ""
		}
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that act on the feed regardless of the
// sub-view's own bindings.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch m.currentView {
	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, true

	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false

	case ViewFeed, ViewThread:
	default:
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case msg.String() == ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Logout):
		next, cmd := m.signOut("Signed out.")
		return next, cmd, true
	}

	if m.currentView == ViewThread {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		next, cmd := m.quit()
		return next, cmd, true

	case key.Matches(msg, m.keys.NextFilter):
		next, cmd := m.switchFilter(m.shiftFilter(1))
		return next, cmd, true
	case key.Matches(msg, m.keys.PrevFilter):
		next, cmd := m.switchFilter(m.shiftFilter(-1))
		return next, cmd, true
	case key.Matches(msg, m.keys.FilterAll):
		next, cmd := m.switchFilter(feed.FilterAll)
		return next, cmd, true
	case key.Matches(msg, m.keys.FilterFollowing):
		next, cmd := m.switchFilter(feed.FilterFollowing)
		return next, cmd, true
	case key.Matches(msg, m.keys.FilterNotifications):
		next, cmd := m.switchFilter(feed.FilterNotifications)
		return next, cmd, true
	case key.Matches(msg, m.keys.FilterSaved):
		next, cmd := m.switchFilter(feed.FilterSaved)
		return next, cmd, true

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh(m.feed.Store.Active()), true

	case key.Matches(msg, m.keys.NewPost):
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.compose.StartPost(), true

	case key.Matches(msg, m.keys.MarkRead):
		m.unreadCount = 0
		return m, m.markAllRead(), true
	}

	a, ok := m.feedList.Selected()
	if !ok {
		return m, nil, false
	}
	k := a.Key()

	switch {
	case key.Matches(msg, m.keys.Select):
		return m, m.openThread(a), true

	case key.Matches(msg, m.keys.Like):
		actions := m.feed.Actions
		return m, m.run("like", func(ctx context.Context) error {
			return actions.ToggleLike(ctx, k)
		}), true

	case key.Matches(msg, m.keys.Save):
		actions := m.feed.Actions
		return m, func() tea.Msg {
			saved, err := actions.ToggleSaved(m.ctx, k)
			if err != nil {
				return resultMsg{op: "save", err: err}
			}
			if saved {
				return resultMsg{op: "save", info: "Saved."}
			}
			return resultMsg{op: "save", info: "Removed from saved."}
		}, true

	case key.Matches(msg, m.keys.Comment):
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.compose.StartComment(k), true

	case key.Matches(msg, m.keys.Rate):
		if a.ActivityType == model.ActivityUserPost || !m.owns(a) {
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.compose.StartRate(a), true

	case key.Matches(msg, m.keys.Edit):
		if !m.owns(a) {
			m.statusMessage = "You can only edit your own activity."
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.compose.StartEdit(a), true

	case key.Matches(msg, m.keys.Delete):
		if !m.owns(a) {
			m.statusMessage = "You can only delete your own activity."
			return m, nil, true
		}
		if m.pendingDelete != k {
			m.pendingDelete = k
			m.statusMessage = "Press d again to delete."
			return m, nil, true
		}
		m.pendingDelete = ""
		actions := m.feed.Actions
		return m, m.run("delete", func(ctx context.Context) error {
			return actions.Delete(ctx, k)
		}), true

	case key.Matches(msg, m.keys.Follow):
		if m.user == nil || a.UserID == m.user.ID || a.IsSynthesized() {
			return m, nil, true
		}
		return m, m.toggleFollow(a.UserID), true
	}
	return m, nil, false
}

// owns reports whether a was created by the signed-in user.
func (m Model) owns(a model.Activity) bool {
	return m.user != nil && a.UserID == m.user.ID && !a.IsSynthesized()
}

func (m Model) shiftFilter(step int) feed.Filter {
	active := m.feed.Store.Active()
	for i, f := range feed.Filters {
		if f == active {
			n := len(feed.Filters)
			return feed.Filters[((i+step)%n+n)%n]
		}
	}
	return feed.FilterAll
}

// switchFilter shows f, loading it only when its bucket is empty. Opening
// the notifications tab marks everything read.
func (m Model) switchFilter(f feed.Filter) (tea.Model, tea.Cmd) {
	m.pendingDelete = ""
	m.feed.Store.SetActive(f)
	m.syncViews()
	cmds := []tea.Cmd{m.activate(f)}
	if f == feed.FilterNotifications && m.unreadCount > 0 {
		m.unreadCount = 0
		cmds = append(cmds, m.markAllRead())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) openThread(a model.Activity) tea.Cmd {
	k := a.Key()
	m.previousView = m.currentView
	m.currentView = ViewThread
	m.thread.Open(a, m.flagsFor(k), m.feed.Store.Thread(k))

	actions := m.feed.Actions
	t := m.feed.Store.Thread(k)
	if t.Loaded || t.Loading {
		m.feed.Store.SetExpanded(k, true)
		return nil
	}
	return m.run("load comments", func(ctx context.Context) error {
		return actions.ToggleComments(ctx, k)
	})
}

func (m Model) handleThreadAction(msg thread.ActionMsg) (tea.Model, tea.Cmd) {
	actions := m.feed.Actions
	switch msg.Action {
	case thread.ActionComment:
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.compose.StartComment(msg.Key)

	case thread.ActionReply:
		author := "comment"
		if c, ok := m.thread.SelectedComment(); ok && c.ID == msg.CommentID {
			author = c.Username
		}
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.compose.StartReply(msg.Key, msg.CommentID, author)

	case thread.ActionLikeComment:
		return m, func() tea.Msg {
			err := actions.ToggleCommentLike(m.ctx, msg.Key, msg.CommentID)
			return resultMsg{op: "like comment", err: err, silent: true}
		}

	case thread.ActionDeleteComment:
		return m, m.run("delete comment", func(ctx context.Context) error {
			return actions.DeleteComment(ctx, msg.Key, msg.CommentID)
		})
	}
	return m, nil
}

func (m Model) handleResult(msg resultMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		if msg.info != "" {
			m.statusMessage = msg.info
		}
		return m, nil
	}
	if api.IsAuthError(msg.err) {
		return m.signOut(api.UserMessage(msg.err))
	}
	if errors.Is(msg.err, context.Canceled) {
		return m, nil
	}
	m.log.Warn("action failed", zap.String("op", msg.op), zap.Error(msg.err))
	if !msg.silent {
		m.errMessage = describe(msg.op, msg.err)
	}
	return m, nil
}

// startSession switches to the feed for user and starts background work.
func (m Model) startSession(user model.User) (tea.Model, tea.Cmd) {
	m.user = &user
	m.thread.SetUser(user.ID)
	m.currentView = ViewFeed
	m.errMessage = ""
	m.feed.Store.SetActive(feed.FilterAll)
	m.syncViews()
	m.log.Info("session started", zap.Int64("user_id", user.ID))

	return m, tea.Batch(
		m.feedList.Init(),
		m.reloadSaved(),
		m.activate(feed.FilterAll),
		m.loadFollowing(user.ID),
		m.poller.Start(),
	)
}

// signOut clears the session and every cached bucket, then shows the
// sign-in form with message.
func (m Model) signOut(message string) (tea.Model, tea.Cmd) {
	if err := m.session.Clear(); err != nil {
		m.log.Warn("clearing session failed", zap.Error(err))
	}
	m.poller.Stop()
	for _, f := range feed.Filters {
		m.feed.Store.Reset(f)
	}
	m.user = nil
	m.following = make(map[int64]bool)
	m.unreadCount = 0
	m.currentView = ViewLogin
	return m, m.login.Start(message)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.poller.Stop()
	m.unsubscribe()
	m.cancel()
	return m, tea.Quit
}

// syncViews copies the current store state into the list and thread.
func (m *Model) syncViews() {
	store := m.feed.Store
	m.feedList.SetBucket(store.Bucket(store.Active()))
	k := m.thread.Key()
	if a, ok := store.Find(k); ok {
		m.thread.Refresh(a, m.flagsFor(k), store.Thread(k))
	}
}

func (m Model) flagsFor(k string) card.Flags {
	return card.Flags{Saved: m.saved.Contains(k), Tentative: m.feed.Store.IsTentative(k)}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.login, cmd = m.login.Update(msg)
	case ViewFeed:
		m.feedList, cmd = m.feedList.Update(msg)
	case ViewThread:
		m.thread, cmd = m.thread.Update(msg)
	case ViewCompose:
		m.compose, cmd = m.compose.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// executeCommand handles a command from the command palette.
func (m Model) executeCommand(c command.CommandMsg) (tea.Model, tea.Cmd) {
	switch c.Name {
	case "refresh", "r":
		return m, m.refresh(m.feed.Store.Active())
	case "post", "new":
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.compose.StartPost()
	case "markread", "read":
		m.unreadCount = 0
		return m, m.markAllRead()
	case "follow", "unfollow":
		if len(c.Args) != 1 {
			m.errMessage = "usage: " + c.Name + " <user id>"
			return m, nil
		}
		var id int64
		if _, err := fmt.Sscan(c.Args[0], &id); err != nil || id <= 0 {
			m.errMessage = "invalid user id " + c.Args[0]
			return m, nil
		}
		// toggleFollow flips the known state; force the requested one.
		m.following[id] = c.Name == "unfollow"
		return m, m.toggleFollow(id)
	case "all", "following", "notifications", "saved":
		f, _ := feed.ParseFilter(c.Name)
		return m.switchFilter(f)
	case "logout":
		return m.signOut("Signed out.")
	case "quit", "q":
		return m.quit()
	}
	m.errMessage = "unknown command: " + c.Name
	return m, nil
}

// userMessage returns the text shown to the user for err.
func userMessage(err error) string {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	if errors.Is(err, feed.ErrNoCommentThread) {
		return "Only ratings with a review can be commented on."
	}
	return api.UserMessage(err)
}
