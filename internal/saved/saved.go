package saved

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nhle/animefeed/internal/store"
)

// StorageKey is the fixed KV key holding the serialized set.
const StorageKey = "saved_activities"

// Set is the user's saved activity keys, persisted through a KV port.
// The whole set is written on every toggle; concurrent writers from other
// processes are not merged, the last write wins.
type Set struct {
	kv store.KV

	mu   sync.RWMutex
	keys []string
	idx  map[string]struct{}
}

// New returns an empty set backed by kv. Call Reload to read the
// persisted contents.
func New(kv store.KV) *Set {
	return &Set{
		kv:  kv,
		idx: make(map[string]struct{}),
	}
}

// Reload replaces the in-memory set with the persisted one. It runs on
// start and whenever the client regains focus.
func (s *Set) Reload(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, StorageKey)
	if errors.Is(err, store.ErrNotFound) {
		s.replace(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading saved set: %w", err)
	}

	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return fmt.Errorf("decoding saved set: %w", err)
	}
	s.replace(keys)
	return nil
}

func (s *Set) replace(keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys = s.keys[:0]
	s.idx = make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := s.idx[k]; dup {
			continue
		}
		s.idx[k] = struct{}{}
		s.keys = append(s.keys, k)
	}
}

// Contains reports whether key is saved.
func (s *Set) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.idx[key]
	return ok
}

// Keys returns the saved keys, most recently saved first.
func (s *Set) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of saved keys.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Toggle flips membership of key, persists the set, and reports whether
// key is saved afterwards. On a write failure the in-memory set is left
// as it was.
func (s *Set) Toggle(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, wasSaved := s.idx[key]

	next := make([]string, 0, len(s.keys)+1)
	if !wasSaved {
		next = append(next, key)
	}
	for _, k := range s.keys {
		if k != key {
			next = append(next, k)
		}
	}

	data, err := json.Marshal(next)
	if err != nil {
		return wasSaved, fmt.Errorf("encoding saved set: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		return wasSaved, fmt.Errorf("persisting saved set: %w", err)
	}

	s.keys = next
	if wasSaved {
		delete(s.idx, key)
	} else {
		s.idx[key] = struct{}{}
	}
	return !wasSaved, nil
}
