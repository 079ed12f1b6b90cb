package feed

import (
	"errors"
	"sync"

	"github.com/nhle/animefeed/internal/commenttree"
	"github.com/nhle/animefeed/internal/model"
)

var (
	ErrLoadInFlight     = errors.New("feed: a load is already in flight")
	ErrNoMorePages      = errors.New("feed: no more pages")
	ErrActivityNotFound = errors.New("feed: activity not in the active feed")
	ErrCommentNotFound  = errors.New("feed: comment not found")
	ErrNoCommentThread  = errors.New("feed: activity has no comment thread")
	ErrNoSource         = errors.New("feed: no source for filter")
)

// EventKind describes what changed in the store.
type EventKind int

const (
	EventBucket EventKind = iota
	EventActivity
	EventThread
	EventActive
)

// Event is delivered to subscribers after every change.
type Event struct {
	Kind   EventKind
	Filter Filter
	Key    string
}

// Thread is the loaded comment state for one activity.
type Thread struct {
	Loaded   bool
	Loading  bool
	Expanded bool
	Comments []model.Comment
	Err      error
}

// Count returns the number of comments in the thread including replies.
func (t Thread) Count() int { return commenttree.Count(t.Comments) }

// Store holds one bucket per filter and the comment threads of the
// activities shown in them. All methods are safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	buckets   map[Filter]*bucket
	active    Filter
	threads   map[string]*Thread
	tentative map[string]int

	listeners map[int]func(Event)
	nextID    int
}

// NewStore creates a store with an empty bucket per filter and "all" active.
func NewStore() *Store {
	s := &Store{
		buckets:   make(map[Filter]*bucket, len(Filters)),
		active:    FilterAll,
		threads:   make(map[string]*Thread),
		tentative: make(map[string]int),
		listeners: make(map[int]func(Event)),
	}
	for _, f := range Filters {
		s.buckets[f] = newBucket(f)
	}
	return s
}

// Subscribe registers fn for change events. The returned func removes it.
// Listeners are called without the store lock held.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Bucket returns a snapshot of the bucket for f.
func (s *Store) Bucket(f Filter) Bucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[f]
	if !ok {
		return Bucket{Filter: f}
	}
	return b.snapshot()
}

// Active returns the filter currently shown.
func (s *Store) Active() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SetActive switches the shown filter without loading anything.
func (s *Store) SetActive(f Filter) {
	s.mu.Lock()
	changed := s.active != f
	s.active = f
	s.mu.Unlock()
	if changed {
		s.notify(Event{Kind: EventActive, Filter: f})
	}
}

// Find returns the activity with key from the active bucket.
func (s *Store) Find(key string) (model.Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.buckets[s.active]
	i, ok := b.find(key)
	if !ok {
		return model.Activity{}, false
	}
	return b.activities[i], true
}

// Mutate applies patch to the activity with key in the active bucket only.
// Other buckets keep their copy until their next fetch.
func (s *Store) Mutate(key string, patch model.ActivityPatch) bool {
	s.mu.Lock()
	f := s.active
	ok := s.replaceLocked(f, key, func(a model.Activity) model.Activity { return patch.Apply(a) })
	s.mu.Unlock()
	if ok {
		s.notify(Event{Kind: EventActivity, Filter: f, Key: key})
	}
	return ok
}

// Remove deletes the activity with key from the active bucket.
func (s *Store) Remove(key string) bool {
	s.mu.Lock()
	f := s.active
	ok := s.buckets[f].remove(key)
	if ok {
		delete(s.threads, key)
	}
	s.mu.Unlock()
	if ok {
		s.notify(Event{Kind: EventBucket, Filter: f, Key: key})
	}
	return ok
}

// Reset empties the bucket for f so the next activation fetches it again.
// Fetches already in flight for f are discarded when they return.
func (s *Store) Reset(f Filter) {
	s.mu.Lock()
	if b, ok := s.buckets[f]; ok {
		b.reset()
	}
	s.mu.Unlock()
	s.notify(Event{Kind: EventBucket, Filter: f})
}

func (s *Store) replaceLocked(f Filter, key string, fn func(model.Activity) model.Activity) bool {
	b := s.buckets[f]
	i, ok := b.find(key)
	if !ok {
		return false
	}
	b.activities[i] = fn(b.activities[i])
	return true
}

// IsTentative reports whether key has an unconfirmed optimistic change.
func (s *Store) IsTentative(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tentative[key] > 0
}

// Thread returns the comment thread state for an activity key.
func (s *Store) Thread(key string) Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[key]
	if !ok {
		return Thread{}
	}
	out := *t
	out.Comments = append([]model.Comment(nil), t.Comments...)
	return out
}

// updateThread runs fn on the thread for key, creating it if needed.
func (s *Store) updateThread(key string, fn func(t *Thread)) {
	s.mu.Lock()
	t, ok := s.threads[key]
	if !ok {
		t = &Thread{}
		s.threads[key] = t
	}
	fn(t)
	s.mu.Unlock()
	s.notify(Event{Kind: EventThread, Key: key})
}

// SetExpanded shows or hides the comment thread of an activity.
func (s *Store) SetExpanded(key string, expanded bool) {
	s.updateThread(key, func(t *Thread) { t.Expanded = expanded })
}
