package feed

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/animefeed/internal/model"
)

func seed(s *Store, f Filter, items ...model.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.buckets[f]
	b.appendUnique(items, nil)
	b.state = StateLoaded
}

func TestSubscribeAndCancel(t *testing.T) {
	s := NewStore()
	seed(s, FilterAll, post(1))

	var mu sync.Mutex
	var events []Event
	cancel := s.Subscribe(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	liked := true
	require.True(t, s.Mutate(post(1).Key(), model.ActivityPatch{UserLiked: &liked}))
	s.SetActive(FilterSaved)

	cancel()
	cancel()
	s.SetActive(FilterAll)

	require.Len(t, events, 2)
	assert.Equal(t, Event{Kind: EventActivity, Filter: FilterAll, Key: post(1).Key()}, events[0])
	assert.Equal(t, EventActive, events[1].Kind)
}

func TestMutateTouchesActiveBucketOnly(t *testing.T) {
	s := NewStore()
	seed(s, FilterAll, post(1))
	seed(s, FilterSaved, post(1))

	n := 5
	assert.True(t, s.Mutate(post(1).Key(), model.ActivityPatch{LikesCount: &n}))
	assert.Equal(t, 5, s.Bucket(FilterAll).Activities[0].LikesCount)
	assert.Equal(t, 0, s.Bucket(FilterSaved).Activities[0].LikesCount)

	assert.False(t, s.Mutate("user_post|1|404", model.ActivityPatch{LikesCount: &n}))
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := NewStore()
	seed(s, FilterAll, post(1), post(2))

	b := s.Bucket(FilterAll)
	b.Activities[0].LikesCount = 99
	assert.Equal(t, 0, s.Bucket(FilterAll).Activities[0].LikesCount)
}

func TestRemoveReindexes(t *testing.T) {
	s := NewStore()
	seed(s, FilterAll, post(1), post(2), post(3))

	require.True(t, s.Remove(post(1).Key()))
	assert.False(t, s.Remove(post(1).Key()))

	a, ok := s.Find(post(3).Key())
	require.True(t, ok)
	assert.Equal(t, int64(3), a.ItemID)
	assert.Equal(t, []string{post(2).Key(), post(3).Key()}, s.Bucket(FilterAll).Keys())
}

func TestTentativeRollbackAfterRemoveIsNoop(t *testing.T) {
	s := NewStore()
	seed(s, FilterAll, post(1))

	r := 4.0
	tv, err := s.ApplyTentative(post(1).Key(), model.ActivityPatch{Rating: &r})
	require.NoError(t, err)
	assert.True(t, s.IsTentative(post(1).Key()))

	s.Remove(post(1).Key())
	tv.Rollback()
	tv.Confirm()
	assert.False(t, s.IsTentative(post(1).Key()))
	assert.Empty(t, s.Bucket(FilterAll).Activities)

	_, err = s.ApplyTentative(post(1).Key(), model.ActivityPatch{Rating: &r})
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestRollbackRestoresNilRating(t *testing.T) {
	s := NewStore()
	seed(s, FilterAll, post(1))

	r := 2.0
	tv, err := s.ApplyTentative(post(1).Key(), model.ActivityPatch{Rating: &r})
	require.NoError(t, err)
	a, _ := s.Find(post(1).Key())
	require.NotNil(t, a.Rating)

	tv.Rollback()
	a, _ = s.Find(post(1).Key())
	assert.Nil(t, a.Rating)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("notifications")
	require.NoError(t, err)
	assert.Equal(t, FilterNotifications, f)

	_, err = ParseFilter("trending")
	assert.Error(t, err)
}
