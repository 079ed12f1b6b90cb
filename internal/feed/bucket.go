package feed

import (
	"fmt"

	"github.com/nhle/animefeed/internal/model"
)

// Filter names an independently paginated feed view.
type Filter string

const (
	FilterAll           Filter = "all"
	FilterFollowing     Filter = "following"
	FilterNotifications Filter = "notifications"
	FilterSaved         Filter = "saved"
)

// Filters lists every filter in tab order.
var Filters = []Filter{FilterAll, FilterFollowing, FilterNotifications, FilterSaved}

// ParseFilter converts a filter name.
func ParseFilter(s string) (Filter, error) {
	for _, f := range Filters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown feed filter %q", s)
}

// State is where a bucket is in its load lifecycle.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StatePartiallyLoaded
	StateLoadingMore
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StatePartiallyLoaded:
		return "partially-loaded"
	case StateLoadingMore:
		return "loading-more"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Bucket is a snapshot of one filter's cached activities and cursor.
type Bucket struct {
	Filter     Filter
	Activities []model.Activity
	Offset     int
	HasMore    bool
	State      State
	Err        error

	// Background is true while the rest of the initial window is being
	// fetched behind an already published first page.
	Background bool
}

// Loading reports whether any fetch for the bucket is in flight.
func (b Bucket) Loading() bool {
	return b.State == StateLoading || b.State == StateLoadingMore || b.Background
}

// Keys returns the activity keys in bucket order.
func (b Bucket) Keys() []string {
	keys := make([]string, len(b.Activities))
	for i, a := range b.Activities {
		keys[i] = a.Key()
	}
	return keys
}

// bucket is the mutable state behind a Bucket snapshot.
type bucket struct {
	filter     Filter
	activities []model.Activity
	index      map[string]int
	offset     int
	hasMore    bool
	state      State
	err        error
	background bool
	inFlight   bool

	// generation changes on reset so stale fetches can be discarded.
	generation int
}

func newBucket(f Filter) *bucket {
	return &bucket{filter: f, index: make(map[string]int)}
}

func (b *bucket) snapshot() Bucket {
	activities := make([]model.Activity, len(b.activities))
	copy(activities, b.activities)
	return Bucket{
		Filter:     b.filter,
		Activities: activities,
		Offset:     b.offset,
		HasMore:    b.hasMore,
		State:      b.state,
		Err:        b.err,
		Background: b.background,
	}
}

func (b *bucket) reset() {
	b.activities = nil
	b.index = make(map[string]int)
	b.offset = 0
	b.hasMore = false
	b.state = StateEmpty
	b.err = nil
	b.background = false
	b.inFlight = false
	b.generation++
}

// appendUnique adds activities after the existing ones and returns how
// many were added. A key already present is skipped, or, when merge is
// set, replaced in place by merge(existing, incoming).
func (b *bucket) appendUnique(items []model.Activity, merge MergeFunc) int {
	added := 0
	for _, a := range items {
		k := a.Key()
		if i, dup := b.index[k]; dup {
			if merge != nil {
				b.activities[i] = merge(b.activities[i], a)
			}
			continue
		}
		b.index[k] = len(b.activities)
		b.activities = append(b.activities, a)
		added++
	}
	return added
}

func (b *bucket) find(key string) (int, bool) {
	i, ok := b.index[key]
	return i, ok
}

func (b *bucket) remove(key string) bool {
	i, ok := b.index[key]
	if !ok {
		return false
	}
	b.activities = append(b.activities[:i:i], b.activities[i+1:]...)
	b.reindex()
	return true
}

func (b *bucket) reindex() {
	b.index = make(map[string]int, len(b.activities))
	for i, a := range b.activities {
		b.index[a.Key()] = i
	}
}

// settledState is the state after a successful fetch.
func (b *bucket) settledState() State {
	if b.hasMore {
		return StatePartiallyLoaded
	}
	return StateLoaded
}
