package thread

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/animefeed/internal/feed"
	"github.com/nhle/animefeed/internal/keys"
	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/ui/card"
)

func openThread(t *testing.T) Model {
	t.Helper()
	parent := int64(10)
	m := New(keys.DefaultKeyMap(), func() time.Time { return time.Unix(0, 0).UTC() }, 80, 30)
	m.SetUser(7)
	m.Open(
		model.Activity{ActivityType: model.ActivityReview, UserID: 1, ItemID: 5, Username: "mika"},
		card.Flags{},
		feed.Thread{Loaded: true, Comments: []model.Comment{
			{ID: 10, UserID: 7, Username: "me", Content: "top", Replies: []model.Comment{
				{ID: 11, UserID: 8, Username: "sora", Content: "reply", ParentCommentID: &parent},
			}},
			{ID: 12, UserID: 8, Username: "sora", Content: "second"},
		}},
	)
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCursorWalksFlattenedThread(t *testing.T) {
	m := openThread(t)

	c, ok := m.SelectedComment()
	require.True(t, ok)
	assert.Equal(t, int64(10), c.ID)

	m, _ = m.Update(runes("j"))
	c, _ = m.SelectedComment()
	assert.Equal(t, int64(11), c.ID)

	m, _ = m.Update(runes("j"))
	m, _ = m.Update(runes("j"))
	c, _ = m.SelectedComment()
	assert.Equal(t, int64(12), c.ID, "cursor stops at the last comment")

	m, _ = m.Update(runes("k"))
	c, _ = m.SelectedComment()
	assert.Equal(t, int64(11), c.ID)
}

func TestReplyAndLikeTargetSelectedComment(t *testing.T) {
	m := openThread(t)
	m, _ = m.Update(runes("j"))

	_, cmd := m.Update(runes("R"))
	require.NotNil(t, cmd)
	assert.Equal(t, ActionMsg{Action: ActionReply, Key: "review|1|5", CommentID: 11}, cmd())

	_, cmd = m.Update(runes("L"))
	require.NotNil(t, cmd)
	assert.Equal(t, ActionMsg{Action: ActionLikeComment, Key: "review|1|5", CommentID: 11}, cmd())

	_, cmd = m.Update(runes("c"))
	require.NotNil(t, cmd)
	assert.Equal(t, ActionMsg{Action: ActionComment, Key: "review|1|5"}, cmd())
}

func TestDeleteOnlyOwnComments(t *testing.T) {
	m := openThread(t)

	_, cmd := m.Update(runes("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, ActionMsg{Action: ActionDeleteComment, Key: "review|1|5", CommentID: 10}, cmd())

	m, _ = m.Update(runes("j"))
	_, cmd = m.Update(runes("d"))
	assert.Nil(t, cmd)
}

func TestRefreshClampsCursor(t *testing.T) {
	m := openThread(t)
	m, _ = m.Update(runes("j"))
	m, _ = m.Update(runes("j"))

	m.Refresh(model.Activity{ActivityType: model.ActivityReview, UserID: 1, ItemID: 5}, card.Flags{},
		feed.Thread{Loaded: true, Comments: []model.Comment{{ID: 10, Content: "top"}}})
	c, ok := m.SelectedComment()
	require.True(t, ok)
	assert.Equal(t, int64(10), c.ID)
}

func TestBack(t *testing.T) {
	m := openThread(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}

func TestEmptyThreadView(t *testing.T) {
	m := New(keys.DefaultKeyMap(), nil, 80, 30)
	m.Open(model.Activity{ActivityType: model.ActivityUserPost, UserID: 1, ItemID: 2}, card.Flags{}, feed.Thread{Loaded: true})
	assert.Contains(t, m.View(), "No comments yet")
	_, ok := m.SelectedComment()
	assert.False(t, ok)
}
