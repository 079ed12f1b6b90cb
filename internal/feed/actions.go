package feed

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nhle/animefeed/internal/commenttree"
	"github.com/nhle/animefeed/internal/logging"
	"github.com/nhle/animefeed/internal/model"
	"github.com/nhle/animefeed/internal/service"
)

// LikeService toggles likes on activities and comments.
type LikeService interface {
	LikeActivity(ctx context.Context, a model.Activity) error
	UnlikeActivity(ctx context.Context, a model.Activity) error
	LikeComment(ctx context.Context, commentID int64) error
	UnlikeComment(ctx context.Context, commentID int64) error
}

// CommentService reads and writes comment threads.
type CommentService interface {
	List(ctx context.Context, targetID int64, reviewType string) ([]model.Comment, error)
	Create(ctx context.Context, in service.NewComment) (*model.Comment, error)
	Delete(ctx context.Context, id int64) error
}

// ActivityService edits and deletes the resource behind an activity.
type ActivityService interface {
	Edit(ctx context.Context, a model.Activity, edit service.ActivityEdit) error
	Delete(ctx context.Context, a model.Activity) error
}

// SavedToggler flips an activity in the persisted saved set.
type SavedToggler interface {
	Contains(key string) bool
	Toggle(ctx context.Context, key string) (bool, error)
}

// Actions performs user mutations against the server and reconciles the
// active bucket once they succeed. A failed call leaves the store as it
// was, except for ratings, which are applied optimistically and rolled
// back.
type Actions struct {
	store      *Store
	likes      LikeService
	comments   CommentService
	activities ActivityService
	saved      SavedToggler
	log        *logging.Logger

	autoExpand bool
	wg         sync.WaitGroup
}

// ActionDeps are the collaborators of Actions.
type ActionDeps struct {
	Likes      LikeService
	Comments   CommentService
	Activities ActivityService
	Saved      SavedToggler
	Logger     *logging.Logger

	// AutoExpand loads and opens comment threads for activities that
	// arrive with comments.
	AutoExpand bool
}

// NewActions returns Actions operating on store.
func NewActions(store *Store, deps ActionDeps) *Actions {
	log := deps.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Actions{
		store:      store,
		likes:      deps.Likes,
		comments:   deps.Comments,
		activities: deps.Activities,
		saved:      deps.Saved,
		log:        log,
		autoExpand: deps.AutoExpand,
	}
}

// Wait blocks until background comment prefetches finish.
func (x *Actions) Wait() { x.wg.Wait() }

func (x *Actions) find(key string) (model.Activity, error) {
	a, ok := x.store.Find(key)
	if !ok {
		return model.Activity{}, fmt.Errorf("%w: %s", ErrActivityNotFound, key)
	}
	return a, nil
}

// ToggleLike likes or unlikes the activity depending on its current state.
func (x *Actions) ToggleLike(ctx context.Context, key string) error {
	a, err := x.find(key)
	if err != nil {
		return err
	}

	liked := !a.UserLiked
	count := a.LikesCount
	if liked {
		err = x.likes.LikeActivity(ctx, a)
		count++
	} else {
		err = x.likes.UnlikeActivity(ctx, a)
		count--
	}
	if err != nil {
		return fmt.Errorf("toggle like on %s: %w", key, err)
	}
	if count < 0 {
		count = 0
	}
	x.store.Mutate(key, model.ActivityPatch{UserLiked: &liked, LikesCount: &count})
	return nil
}

// Rate sets a new rating. The value is shown immediately and reverted if
// the server rejects it.
func (x *Actions) Rate(ctx context.Context, key string, rating float64) error {
	if err := service.ValidateRating(rating); err != nil {
		return err
	}
	a, err := x.find(key)
	if err != nil {
		return err
	}

	t, err := x.store.ApplyTentative(key, model.ActivityPatch{Rating: &rating})
	if err != nil {
		return err
	}
	if err := x.activities.Edit(ctx, a, service.ActivityEdit{Rating: &rating}); err != nil {
		t.Rollback()
		return fmt.Errorf("rate %s: %w", key, err)
	}
	t.Confirm()
	return nil
}

// Edit changes the rating or text of an activity.
func (x *Actions) Edit(ctx context.Context, key string, edit service.ActivityEdit) error {
	a, err := x.find(key)
	if err != nil {
		return err
	}
	if edit.Rating != nil {
		if err := service.ValidateRating(*edit.Rating); err != nil {
			return err
		}
	}
	if edit.Content != nil {
		switch a.ActivityType {
		case model.ActivityReview:
			err = service.ValidateReview(*edit.Content)
		case model.ActivityUserPost:
			err = service.ValidatePost(*edit.Content)
		}
		if err != nil {
			return err
		}
	}

	if err := x.activities.Edit(ctx, a, edit); err != nil {
		return fmt.Errorf("edit %s: %w", key, err)
	}

	patch := model.ActivityPatch{Rating: edit.Rating}
	switch a.ActivityType {
	case model.ActivityReview:
		patch.ReviewContent = edit.Content
	case model.ActivityUserPost:
		patch.PostContent = edit.Content
	}
	x.store.Mutate(key, patch)
	return nil
}

// Delete removes the activity on the server and from the active bucket.
func (x *Actions) Delete(ctx context.Context, key string) error {
	a, err := x.find(key)
	if err != nil {
		return err
	}
	if err := x.activities.Delete(ctx, a); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	x.store.Remove(key)
	return nil
}

// ToggleSaved flips the saved flag and reports the new state. Unsaving
// while the saved filter is shown also drops the activity from it.
func (x *Actions) ToggleSaved(ctx context.Context, key string) (bool, error) {
	saved, err := x.saved.Toggle(ctx, key)
	if err != nil {
		return x.saved.Contains(key), fmt.Errorf("toggle saved %s: %w", key, err)
	}
	if !saved && x.store.Active() == FilterSaved {
		x.store.Remove(key)
	}
	return saved, nil
}

// IsSaved reports whether key is in the saved set.
func (x *Actions) IsSaved(key string) bool { return x.saved.Contains(key) }

// LoadComments fetches the thread of an activity and shapes it into the
// two-level tree.
func (x *Actions) LoadComments(ctx context.Context, key string) error {
	a, err := x.find(key)
	if err != nil {
		return err
	}
	return x.loadThread(ctx, a, false)
}

func (x *Actions) loadThread(ctx context.Context, a model.Activity, expand bool) error {
	key := a.Key()
	target, ok := a.CommentTargetID()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoCommentThread, key)
	}
	x.store.updateThread(key, func(t *Thread) {
		t.Loading = true
		t.Err = nil
	})

	comments, err := x.comments.List(ctx, target, a.ActivityType.ReviewType())
	if err != nil {
		x.store.updateThread(key, func(t *Thread) {
			t.Loading = false
			t.Err = err
		})
		return fmt.Errorf("load comments for %s: %w", key, err)
	}

	tree := commenttree.Build(comments)
	x.store.updateThread(key, func(t *Thread) {
		t.Loading = false
		t.Loaded = true
		t.Comments = tree
		if expand {
			t.Expanded = true
		}
	})
	return nil
}

// ToggleComments opens or closes the thread, loading it on first open.
func (x *Actions) ToggleComments(ctx context.Context, key string) error {
	t := x.store.Thread(key)
	if t.Expanded {
		x.store.SetExpanded(key, false)
		return nil
	}
	x.store.SetExpanded(key, true)
	if t.Loaded || t.Loading {
		return nil
	}
	return x.LoadComments(ctx, key)
}

// Prefetch loads the threads of activities that have comments in the
// background and opens them. It is a no-op unless AutoExpand is set.
func (x *Actions) Prefetch(ctx context.Context, _ Filter, activities []model.Activity) {
	if !x.autoExpand {
		return
	}
	for _, a := range activities {
		if a.CommentsCount <= 0 || a.IsSynthesized() {
			continue
		}
		if _, ok := a.CommentTargetID(); !ok {
			continue
		}
		t := x.store.Thread(a.Key())
		if t.Loaded || t.Loading {
			continue
		}
		x.wg.Add(1)
		go func(a model.Activity) {
			defer x.wg.Done()
			if err := x.loadThread(ctx, a, true); err != nil {
				x.log.Warn("comment prefetch failed", zap.String("activity", a.Key()), zap.Error(err))
			}
		}(a)
	}
}

// AddComment posts a top-level comment on the activity.
func (x *Actions) AddComment(ctx context.Context, key, content string) (model.Comment, error) {
	return x.postComment(ctx, key, content, nil)
}

// AddReply posts a reply under parentID.
func (x *Actions) AddReply(ctx context.Context, key string, parentID int64, content string) (model.Comment, error) {
	return x.postComment(ctx, key, content, &parentID)
}

func (x *Actions) postComment(ctx context.Context, key, content string, parentID *int64) (model.Comment, error) {
	if err := service.ValidateComment(content); err != nil {
		return model.Comment{}, err
	}
	a, err := x.find(key)
	if err != nil {
		return model.Comment{}, err
	}
	target, ok := a.CommentTargetID()
	if !ok {
		return model.Comment{}, fmt.Errorf("%w: %s", ErrNoCommentThread, key)
	}
	if parentID != nil {
		if _, ok := commenttree.Find(x.store.Thread(key).Comments, *parentID); !ok {
			return model.Comment{}, fmt.Errorf("%w: %d", ErrCommentNotFound, *parentID)
		}
	}

	created, err := x.comments.Create(ctx, service.NewComment{
		ReviewID:        target,
		ReviewType:      a.ActivityType.ReviewType(),
		Content:         content,
		ParentCommentID: parentID,
	})
	if err != nil {
		return model.Comment{}, fmt.Errorf("comment on %s: %w", key, err)
	}
	c := *created
	if parentID != nil && c.ParentCommentID == nil {
		c.ParentCommentID = parentID
	}

	x.store.updateThread(key, func(t *Thread) {
		t.Comments = commenttree.Insert(t.Comments, c)
		t.Expanded = true
	})
	count := a.CommentsCount + 1
	x.store.Mutate(key, model.ActivityPatch{CommentsCount: &count})
	return c, nil
}

// DeleteComment removes a comment. The activity's comment count drops by
// one even when the comment carried replies.
func (x *Actions) DeleteComment(ctx context.Context, key string, commentID int64) error {
	a, err := x.find(key)
	if err != nil {
		return err
	}
	if err := x.comments.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment %d: %w", commentID, err)
	}

	x.store.updateThread(key, func(t *Thread) {
		t.Comments, _ = commenttree.Remove(t.Comments, commentID)
	})
	count := a.CommentsCount - 1
	if count < 0 {
		count = 0
	}
	x.store.Mutate(key, model.ActivityPatch{CommentsCount: &count})
	return nil
}

// ToggleCommentLike likes or unlikes a comment. Failures are logged and
// leave the thread unchanged.
func (x *Actions) ToggleCommentLike(ctx context.Context, key string, commentID int64) error {
	c, ok := commenttree.Find(x.store.Thread(key).Comments, commentID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrCommentNotFound, commentID)
	}

	var err error
	if c.UserLiked {
		err = x.likes.UnlikeComment(ctx, commentID)
	} else {
		err = x.likes.LikeComment(ctx, commentID)
	}
	if err != nil {
		x.log.Warn("comment like failed", zap.Int64("comment_id", commentID), zap.Error(err))
		return fmt.Errorf("toggle like on comment %d: %w", commentID, err)
	}

	x.store.updateThread(key, func(t *Thread) {
		t.Comments, _ = commenttree.Update(t.Comments, commentID, func(c *model.Comment) {
			c.UserLiked = !c.UserLiked
			if c.UserLiked {
				c.LikesCount++
			} else if c.LikesCount > 0 {
				c.LikesCount--
			}
		})
	})
	return nil
}
