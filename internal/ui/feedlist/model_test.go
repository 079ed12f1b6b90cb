package feedlist

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/animefeed/internal/feed"
	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/ui/card"
)

func activities(n int) []model.Activity {
	out := make([]model.Activity, n)
	for i := range out {
		out[i] = model.Activity{ActivityType: model.ActivityUserPost, UserID: 1, ItemID: int64(i + 1), Username: "mika"}
	}
	return out
}

func fixedNow() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

func down(m Model) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyDown})
}

func TestSetBucketKeepsSelection(t *testing.T) {
	m := New(nil, fixedNow, 80, 40)
	m.SetBucket(feed.Bucket{Filter: feed.FilterAll, Activities: activities(5), HasMore: true, State: feed.StatePartiallyLoaded})
	m, _ = down(m)
	m, _ = down(m)

	key, ok := m.SelectedKey()
	require.True(t, ok)
	assert.Equal(t, "user_post|1|3", key)

	// The first activity was removed; the cursor follows activity 3.
	m.SetBucket(feed.Bucket{Filter: feed.FilterAll, Activities: activities(5)[1:], HasMore: true, State: feed.StatePartiallyLoaded})
	key, _ = m.SelectedKey()
	assert.Equal(t, "user_post|1|3", key)

	m.SetBucket(feed.Bucket{Filter: feed.FilterSaved, Activities: activities(2), State: feed.StateLoaded})
	key, _ = m.SelectedKey()
	assert.Equal(t, "user_post|1|1", key, "switching filters starts at the top")
}

func TestRequestsNextPageNearEnd(t *testing.T) {
	m := New(nil, fixedNow, 80, 200)
	m.SetBucket(feed.Bucket{Filter: feed.FilterFollowing, Activities: activities(5), HasMore: true, State: feed.StatePartiallyLoaded})

	m, cmd := down(m)
	assert.Nil(t, msgOf(cmd, t), "far from the end")

	m, cmd = down(m)
	msg := msgOf(cmd, t)
	require.IsType(t, LoadMoreMsg{}, msg)
	assert.Equal(t, feed.FilterFollowing, msg.(LoadMoreMsg).Filter)

	m.SetBucket(feed.Bucket{Filter: feed.FilterFollowing, Activities: activities(5), HasMore: false, State: feed.StateLoaded})
	_, cmd = down(m)
	assert.Nil(t, msgOf(cmd, t), "no more pages")
}

func TestNoLoadMoreWhileLoading(t *testing.T) {
	m := New(nil, fixedNow, 80, 200)
	m.SetBucket(feed.Bucket{Filter: feed.FilterAll, Activities: activities(2), HasMore: true, State: feed.StatePartiallyLoaded, Background: true})
	_, cmd := down(m)
	assert.Nil(t, msgOf(cmd, t))
}

func TestFlagsAppliedToItems(t *testing.T) {
	flags := func(key string) card.Flags { return card.Flags{Saved: key == "user_post|1|2"} }
	m := New(flags, fixedNow, 80, 40)
	m.SetBucket(feed.Bucket{Filter: feed.FilterAll, Activities: activities(2), State: feed.StateLoaded})

	items := m.list.Items()
	assert.False(t, items[0].(ActivityItem).Flags.Saved)
	assert.True(t, items[1].(ActivityItem).Flags.Saved)
}

func TestEmptyStates(t *testing.T) {
	m := New(nil, fixedNow, 80, 10)
	m.SetBucket(feed.Bucket{Filter: feed.FilterSaved, State: feed.StateLoaded})
	assert.Contains(t, m.View(), "No saved activities")

	m.SetBucket(feed.Bucket{Filter: feed.FilterAll, State: feed.StateError})
	assert.Contains(t, m.View(), "Press r to retry")
}

// msgOf runs cmd and returns the first non-nil message it produces,
// unwrapping batches.
func msgOf(cmd tea.Cmd, t *testing.T) tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if m := msgOf(c, t); m != nil {
				return m
			}
		}
		return nil
	}
	return msg
}
