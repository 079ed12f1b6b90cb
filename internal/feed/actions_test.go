package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/service"
)

type actionsFixture struct {
	feed       *Feed
	src        *fakeFeed
	likes      *fakeLikes
	comments   *fakeComments
	activities *fakeActivities
	saved      *fakeSaved
}

func newActionsFixture(t *testing.T, items []model.Activity) *actionsFixture {
	t.Helper()
	fx := &actionsFixture{
		src:        &fakeFeed{items: items},
		likes:      &fakeLikes{},
		comments:   &fakeComments{threads: map[int64][]model.Comment{}},
		activities: &fakeActivities{},
		saved:      newFakeSaved(),
	}
	fx.feed = New(Config{
		Activities:    fx.src,
		Notifications: &fakeNotifications{},
		Saved:         fx.saved,
		Actions: ActionDeps{
			Likes:      fx.likes,
			Comments:   fx.comments,
			Activities: fx.activities,
			AutoExpand: true,
		},
	})
	return fx
}

func (fx *actionsFixture) load(t *testing.T, f Filter) {
	t.Helper()
	require.NoError(t, fx.feed.Pages.Activate(context.Background(), f))
	fx.feed.Wait()
}

func TestLikeUpdatesOnlyActiveBucket(t *testing.T) {
	fx := newActionsFixture(t, posts(1, 3))
	ctx := context.Background()
	fx.load(t, FilterFollowing)
	fx.load(t, FilterAll)

	key := post(2).Key()
	require.NoError(t, fx.feed.Actions.ToggleLike(ctx, key))

	a, ok := fx.feed.Store.Find(key)
	require.True(t, ok)
	assert.True(t, a.UserLiked)
	assert.Equal(t, 1, a.LikesCount)

	following := fx.feed.Store.Bucket(FilterFollowing)
	assert.False(t, following.Activities[1].UserLiked, "inactive bucket keeps its copy")
	assert.Equal(t, 0, following.Activities[1].LikesCount)

	require.NoError(t, fx.feed.Actions.ToggleLike(ctx, key))
	a, _ = fx.feed.Store.Find(key)
	assert.False(t, a.UserLiked)
	assert.Equal(t, 0, a.LikesCount)
	assert.Equal(t, []string{"like " + key, "unlike " + key}, fx.likes.calls)
}

func TestFailedLikeLeavesActivityUnchanged(t *testing.T) {
	fx := newActionsFixture(t, posts(1, 1))
	fx.load(t, FilterAll)
	fx.likes.err = errServer

	key := post(1).Key()
	err := fx.feed.Actions.ToggleLike(context.Background(), key)
	require.ErrorIs(t, err, errServer)

	a, _ := fx.feed.Store.Find(key)
	assert.False(t, a.UserLiked)
	assert.Equal(t, 0, a.LikesCount)
}

func TestActionOnMissingActivity(t *testing.T) {
	fx := newActionsFixture(t, posts(1, 1))
	fx.load(t, FilterAll)

	err := fx.feed.Actions.ToggleLike(context.Background(), "user_post|1|99")
	assert.ErrorIs(t, err, ErrActivityNotFound)
	assert.Empty(t, fx.likes.calls)
}

func TestRateRollsBackOnFailure(t *testing.T) {
	a := model.Activity{ActivityType: model.ActivityAnimeRating, UserID: 1, ItemID: 7}
	old := 3.0
	a.Rating = &old
	fx := newActionsFixture(t, []model.Activity{a})
	fx.load(t, FilterAll)

	key := a.Key()
	var during *float64
	fx.activities.during = func() {
		cur, _ := fx.feed.Store.Find(key)
		during = cur.Rating
		assert.True(t, fx.feed.Store.IsTentative(key))
	}
	fx.activities.err = errServer

	err := fx.feed.Actions.Rate(context.Background(), key, 4.5)
	require.ErrorIs(t, err, errServer)
	require.NotNil(t, during)
	assert.Equal(t, 4.5, *during, "new rating is shown while the request runs")

	cur, _ := fx.feed.Store.Find(key)
	require.NotNil(t, cur.Rating)
	assert.Equal(t, 3.0, *cur.Rating)
	assert.False(t, fx.feed.Store.IsTentative(key))
}

func TestRateRollbackKeepsLikeConfirmedMeanwhile(t *testing.T) {
	a := model.Activity{ActivityType: model.ActivityAnimeRating, UserID: 1, ItemID: 7}
	old := 3.0
	a.Rating = &old
	fx := newActionsFixture(t, []model.Activity{a})
	fx.load(t, FilterAll)

	key := a.Key()
	fx.activities.during = func() {
		require.NoError(t, fx.feed.Actions.ToggleLike(context.Background(), key))
	}
	fx.activities.err = errServer

	require.ErrorIs(t, fx.feed.Actions.Rate(context.Background(), key, 4.5), errServer)

	cur, _ := fx.feed.Store.Find(key)
	require.NotNil(t, cur.Rating)
	assert.Equal(t, 3.0, *cur.Rating)
	assert.True(t, cur.UserLiked, "like confirmed during the request survives")
	assert.Equal(t, 1, cur.LikesCount)
}

func TestRateConfirms(t *testing.T) {
	a := model.Activity{ActivityType: model.ActivityCharacterRating, UserID: 1, ItemID: 7}
	fx := newActionsFixture(t, []model.Activity{a})
	fx.load(t, FilterAll)

	require.NoError(t, fx.feed.Actions.Rate(context.Background(), a.Key(), 2.5))
	cur, _ := fx.feed.Store.Find(a.Key())
	require.NotNil(t, cur.Rating)
	assert.Equal(t, 2.5, *cur.Rating)
	assert.False(t, fx.feed.Store.IsTentative(a.Key()))
}

func TestRateRejectsInvalidValue(t *testing.T) {
	a := model.Activity{ActivityType: model.ActivityAnimeRating, UserID: 1, ItemID: 7}
	fx := newActionsFixture(t, []model.Activity{a})
	fx.load(t, FilterAll)

	err := fx.feed.Actions.Rate(context.Background(), a.Key(), 4.3)
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Empty(t, fx.activities.edits)
}

func TestEditPostContent(t *testing.T) {
	fx := newActionsFixture(t, posts(1, 1))
	fx.load(t, FilterAll)

	content := "an updated post"
	key := post(1).Key()
	require.NoError(t, fx.feed.Actions.Edit(context.Background(), key, service.ActivityEdit{Content: &content}))

	a, _ := fx.feed.Store.Find(key)
	assert.Equal(t, content, a.Body())
}

func TestEditReviewValidatesLength(t *testing.T) {
	rid := int64(9)
	body := "a long enough review"
	a := model.Activity{ActivityType: model.ActivityReview, UserID: 1, ItemID: 3, ReviewID: &rid, ReviewContent: &body}
	fx := newActionsFixture(t, []model.Activity{a})
	fx.load(t, FilterAll)

	short := "too short"
	err := fx.feed.Actions.Edit(context.Background(), a.Key(), service.ActivityEdit{Content: &short})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	cur, _ := fx.feed.Store.Find(a.Key())
	assert.Equal(t, body, cur.Body())
}

func TestDeleteRemovesFromActiveBucket(t *testing.T) {
	fx := newActionsFixture(t, posts(1, 3))
	fx.load(t, FilterAll)

	require.NoError(t, fx.feed.Actions.Delete(context.Background(), post(2).Key()))
	b := fx.feed.Store.Bucket(FilterAll)
	assert.Equal(t, []string{post(1).Key(), post(3).Key()}, b.Keys())
}

func TestFailedDeleteKeepsActivity(t *testing.T) {
	fx := newActionsFixture(t, posts(1, 2))
	fx.load(t, FilterAll)
	fx.activities.err = errServer

	require.Error(t, fx.feed.Actions.Delete(context.Background(), post(1).Key()))
	assert.Len(t, fx.feed.Store.Bucket(FilterAll).Activities, 2)
}

func TestToggleSaved(t *testing.T) {
	fx := newActionsFixture(t, posts(1, 2))
	ctx := context.Background()
	fx.load(t, FilterAll)
	key := post(1).Key()

	saved, err := fx.feed.Actions.ToggleSaved(ctx, key)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.True(t, fx.feed.Actions.IsSaved(key))

	fx.load(t, FilterSaved)
	assert.Equal(t, []string{key}, fx.feed.Store.Bucket(FilterSaved).Keys())

	saved, err = fx.feed.Actions.ToggleSaved(ctx, key)
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Empty(t, fx.feed.Store.Bucket(FilterSaved).Activities, "unsaved activity leaves the saved view")
}

func TestToggleSavedFailureKeepsState(t *testing.T) {
	fx := newActionsFixture(t, posts(1, 1))
	fx.load(t, FilterAll)
	fx.saved.err = errServer

	saved, err := fx.feed.Actions.ToggleSaved(context.Background(), post(1).Key())
	require.ErrorIs(t, err, errServer)
	assert.False(t, saved)
}

func commentedPost() model.Activity {
	a := post(1)
	a.CommentsCount = 3
	return a
}

func TestDeleteTopLevelCommentDecrementsByOne(t *testing.T) {
	fx := newActionsFixture(t, []model.Activity{commentedPost()})
	parent := int64(10)
	fx.comments.threads[1] = []model.Comment{
		{ID: 10, Content: "top"},
		{ID: 11, Content: "reply", ParentCommentID: &parent},
		{ID: 12, Content: "reply", ParentCommentID: &parent},
	}
	fx.load(t, FilterAll)
	key := post(1).Key()

	thread := fx.feed.Store.Thread(key)
	require.True(t, thread.Loaded, "threads with comments are prefetched")
	assert.True(t, thread.Expanded)
	require.Len(t, thread.Comments, 1)
	assert.Len(t, thread.Comments[0].Replies, 2)

	require.NoError(t, fx.feed.Actions.DeleteComment(context.Background(), key, 10))

	assert.Empty(t, fx.feed.Store.Thread(key).Comments)
	a, _ := fx.feed.Store.Find(key)
	assert.Equal(t, 2, a.CommentsCount)
	assert.Equal(t, []int64{10}, fx.comments.deleted)
}

func TestRatingWithoutReviewHasNoThread(t *testing.T) {
	bare := model.Activity{ActivityType: model.ActivityAnimeRating, UserID: 1, ItemID: 7, CommentsCount: 2}
	rid := int64(40)
	reviewed := model.Activity{ActivityType: model.ActivityAnimeRating, UserID: 2, ItemID: 7, ReviewID: &rid, CommentsCount: 1}
	fx := newActionsFixture(t, []model.Activity{bare, reviewed})
	fx.comments.threads[7] = []model.Comment{{ID: 1, Content: "belongs to anime 7, not a review"}}
	fx.comments.threads[40] = []model.Comment{{ID: 2, Content: "on the review"}}
	fx.load(t, FilterAll)
	ctx := context.Background()

	assert.False(t, fx.feed.Store.Thread(bare.Key()).Loaded, "rating without a review is not prefetched")
	thread := fx.feed.Store.Thread(reviewed.Key())
	require.True(t, thread.Loaded)
	require.Len(t, thread.Comments, 1)
	assert.Equal(t, int64(2), thread.Comments[0].ID)

	assert.ErrorIs(t, fx.feed.Actions.LoadComments(ctx, bare.Key()), ErrNoCommentThread)
	assert.Empty(t, fx.feed.Store.Thread(bare.Key()).Comments)

	_, err := fx.feed.Actions.AddComment(ctx, bare.Key(), "hello")
	assert.ErrorIs(t, err, ErrNoCommentThread)
	assert.Empty(t, fx.comments.created)
}

func TestAddCommentAndReply(t *testing.T) {
	fx := newActionsFixture(t, posts(1, 1))
	fx.load(t, FilterAll)
	ctx := context.Background()
	key := post(1).Key()

	require.NoError(t, fx.feed.Actions.ToggleComments(ctx, key))
	thread := fx.feed.Store.Thread(key)
	assert.True(t, thread.Loaded)
	assert.True(t, thread.Expanded)

	top, err := fx.feed.Actions.AddComment(ctx, key, "first!")
	require.NoError(t, err)
	reply, err := fx.feed.Actions.AddReply(ctx, key, top.ID, "welcome")
	require.NoError(t, err)

	thread = fx.feed.Store.Thread(key)
	require.Len(t, thread.Comments, 1)
	require.Len(t, thread.Comments[0].Replies, 1)
	assert.Equal(t, reply.ID, thread.Comments[0].Replies[0].ID)
	assert.Equal(t, 2, thread.Count())

	a, _ := fx.feed.Store.Find(key)
	assert.Equal(t, 2, a.CommentsCount)

	require.Len(t, fx.comments.created, 2)
	assert.Equal(t, "post", fx.comments.created[0].ReviewType)
	assert.Equal(t, int64(1), fx.comments.created[0].ReviewID)
	require.NotNil(t, fx.comments.created[1].ParentCommentID)
	assert.Equal(t, top.ID, *fx.comments.created[1].ParentCommentID)

	require.NoError(t, fx.feed.Actions.ToggleComments(ctx, key))
	assert.False(t, fx.feed.Store.Thread(key).Expanded)
}

func TestAddReplyToUnknownParent(t *testing.T) {
	fx := newActionsFixture(t, posts(1, 1))
	fx.load(t, FilterAll)

	_, err := fx.feed.Actions.AddReply(context.Background(), post(1).Key(), 42, "hello")
	assert.ErrorIs(t, err, ErrCommentNotFound)
	assert.Empty(t, fx.comments.created)
}

func TestEmptyCommentRejected(t *testing.T) {
	fx := newActionsFixture(t, posts(1, 1))
	fx.load(t, FilterAll)

	_, err := fx.feed.Actions.AddComment(context.Background(), post(1).Key(), "   ")
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCommentLike(t *testing.T) {
	fx := newActionsFixture(t, []model.Activity{commentedPost()})
	fx.comments.threads[1] = []model.Comment{{ID: 10, Content: "top", LikesCount: 2}}
	fx.load(t, FilterAll)
	ctx := context.Background()
	key := post(1).Key()

	require.NoError(t, fx.feed.Actions.ToggleCommentLike(ctx, key, 10))
	c := fx.feed.Store.Thread(key).Comments[0]
	assert.True(t, c.UserLiked)
	assert.Equal(t, 3, c.LikesCount)

	fx.likes.err = errServer
	require.Error(t, fx.feed.Actions.ToggleCommentLike(ctx, key, 10))
	c = fx.feed.Store.Thread(key).Comments[0]
	assert.True(t, c.UserLiked, "failed toggle leaves the comment alone")
	assert.Equal(t, 3, c.LikesCount)

	assert.ErrorIs(t, fx.feed.Actions.ToggleCommentLike(ctx, key, 99), ErrCommentNotFound)
}

func TestCommentLoadFailure(t *testing.T) {
	fx := newActionsFixture(t, posts(1, 1))
	fx.load(t, FilterAll)
	fx.comments.err = errServer

	err := fx.feed.Actions.LoadComments(context.Background(), post(1).Key())
	require.ErrorIs(t, err, errServer)
	thread := fx.feed.Store.Thread(post(1).Key())
	assert.False(t, thread.Loading)
	assert.ErrorIs(t, thread.Err, errServer)
}
