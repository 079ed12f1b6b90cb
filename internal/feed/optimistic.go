package feed

import (
	"sync"

	"github.com/nhle/animefeed/internal/model"
)

// Tentative is an optimistic change applied to the active bucket before
// the server has confirmed it. Exactly one of Confirm or Rollback takes
// effect; later calls are no-ops.
type Tentative struct {
	store  *Store
	filter Filter
	key    string
	patch  model.ActivityPatch
	before model.Activity
	once   sync.Once
}

// ApplyTentative snapshots the activity with key in the active bucket and
// applies patch to it.
func (s *Store) ApplyTentative(key string, patch model.ActivityPatch) (*Tentative, error) {
	s.mu.Lock()
	f := s.active
	b := s.buckets[f]
	i, ok := b.find(key)
	if !ok {
		s.mu.Unlock()
		return nil, ErrActivityNotFound
	}
	before := b.activities[i]
	b.activities[i] = patch.Apply(before)
	s.tentative[key]++
	s.mu.Unlock()

	s.notify(Event{Kind: EventActivity, Filter: f, Key: key})
	return &Tentative{store: s, filter: f, key: key, patch: patch, before: before}, nil
}

// Confirm keeps the applied values.
func (t *Tentative) Confirm() {
	t.once.Do(func() {
		t.store.mu.Lock()
		t.store.release(t.key)
		t.store.mu.Unlock()
		t.store.notify(Event{Kind: EventActivity, Filter: t.filter, Key: t.key})
	})
}

// Rollback restores the fields the patch set to their values before the
// change. Other fields keep whatever was confirmed meanwhile. It does
// nothing to the bucket if the activity was removed or the bucket reset.
func (t *Tentative) Rollback() {
	t.once.Do(func() {
		t.store.mu.Lock()
		t.store.release(t.key)
		restored := t.store.replaceLocked(t.filter, t.key, func(cur model.Activity) model.Activity {
			return t.patch.Revert(cur, t.before)
		})
		t.store.mu.Unlock()
		if restored {
			t.store.notify(Event{Kind: EventActivity, Filter: t.filter, Key: t.key})
		}
	})
}

func (s *Store) release(key string) {
	if s.tentative[key] <= 1 {
		delete(s.tentative, key)
		return
	}
	s.tentative[key]--
}
