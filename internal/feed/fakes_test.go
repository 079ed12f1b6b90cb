package feed

import (
	"context"
	"errors"
	"sync"

	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/service"
)

var errServer = errors.New("server unavailable")

func post(id int64) model.Activity {
	body := "post"
	return model.Activity{
		ActivityType: model.ActivityUserPost,
		UserID:       1,
		ItemID:       id,
		Username:     "alice",
		PostContent:  &body,
	}
}

func posts(from, to int64) []model.Activity {
	var out []model.Activity
	for i := from; i <= to; i++ {
		out = append(out, post(i))
	}
	return out
}

// fakeFeed serves a fixed list of activities by limit/offset.
type fakeFeed struct {
	mu     sync.Mutex
	items  []model.Activity
	calls  []service.FeedOptions
	failAt map[int]error

	// gate, when set, blocks fetches past offset 0 until closed.
	gate chan struct{}
}

func (f *fakeFeed) List(ctx context.Context, opts service.FeedOptions) ([]model.Activity, error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	gate := f.gate
	err := f.failAt[opts.Offset]
	f.mu.Unlock()

	if gate != nil && opts.Offset > 0 {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if opts.Offset >= len(f.items) {
		return nil, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(f.items) {
		end = len(f.items)
	}
	return append([]model.Activity(nil), f.items[opts.Offset:end]...), nil
}

func (f *fakeFeed) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeNotifications struct {
	items []model.Notification
	calls int
}

func (f *fakeNotifications) List(_ context.Context, limit, offset int) ([]model.Notification, error) {
	f.calls++
	if offset >= len(f.items) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.items) {
		end = len(f.items)
	}
	return f.items[offset:end], nil
}

type fakeSaved struct {
	mu   sync.Mutex
	keys map[string]bool
	err  error
}

func newFakeSaved(keys ...string) *fakeSaved {
	s := &fakeSaved{keys: make(map[string]bool)}
	for _, k := range keys {
		s.keys[k] = true
	}
	return s
}

func (s *fakeSaved) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key]
}

func (s *fakeSaved) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

func (s *fakeSaved) Toggle(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.keys[key] {
		delete(s.keys, key)
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

type fakeLikes struct {
	err   error
	calls []string
}

func (l *fakeLikes) LikeActivity(_ context.Context, a model.Activity) error {
	l.calls = append(l.calls, "like "+a.Key())
	return l.err
}

func (l *fakeLikes) UnlikeActivity(_ context.Context, a model.Activity) error {
	l.calls = append(l.calls, "unlike "+a.Key())
	return l.err
}

func (l *fakeLikes) LikeComment(context.Context, int64) error {
	l.calls = append(l.calls, "like comment")
	return l.err
}

func (l *fakeLikes) UnlikeComment(context.Context, int64) error {
	l.calls = append(l.calls, "unlike comment")
	return l.err
}

type fakeComments struct {
	mu      sync.Mutex
	threads map[int64][]model.Comment
	created []service.NewComment
	deleted []int64
	nextID  int64
	err     error
}

func (c *fakeComments) List(_ context.Context, targetID int64, _ string) ([]model.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return append([]model.Comment(nil), c.threads[targetID]...), nil
}

func (c *fakeComments) Create(_ context.Context, in service.NewComment) (*model.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	c.created = append(c.created, in)
	c.nextID++
	return &model.Comment{ID: 100 + c.nextID, Content: in.Content, ParentCommentID: in.ParentCommentID}, nil
}

func (c *fakeComments) Delete(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.deleted = append(c.deleted, id)
	return nil
}

type fakeActivities struct {
	err    error
	edits  []service.ActivityEdit
	during func()
}

func (a *fakeActivities) Edit(_ context.Context, _ model.Activity, edit service.ActivityEdit) error {
	a.edits = append(a.edits, edit)
	if a.during != nil {
		a.during()
	}
	return a.err
}

func (a *fakeActivities) Delete(context.Context, model.Activity) error {
	return a.err
}
