package commenttree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/animefeed/internal/model"
)

func ptr(id int64) *int64 { return &id }

func comment(id int64, parent *int64) model.Comment {
	return model.Comment{ID: id, Content: "c", ParentCommentID: parent}
}

func ids(cs []model.Comment) []int64 {
	out := make([]int64, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestBuildFlat(t *testing.T) {
	flat := []model.Comment{
		comment(1, nil),
		comment(2, ptr(1)),
		comment(3, nil),
		comment(4, ptr(1)),
		comment(5, ptr(3)),
	}

	tree := Build(flat)

	require.Len(t, tree, 2)
	assert.Equal(t, []int64{1, 3}, ids(tree))
	assert.Equal(t, []int64{2, 4}, ids(tree[0].Replies))
	assert.Equal(t, []int64{5}, ids(tree[1].Replies))
	assert.Equal(t, 5, Count(tree))
}

func TestBuildReplyBeforeParent(t *testing.T) {
	tree := Build([]model.Comment{comment(2, ptr(1)), comment(1, nil)})

	assert.Equal(t, []int64{1}, ids(tree))
	assert.Equal(t, []int64{2}, ids(tree[0].Replies))
}

func TestBuildOrphanBecomesTopLevel(t *testing.T) {
	tree := Build([]model.Comment{
		comment(1, nil),
		comment(2, ptr(99)),
	})

	assert.Equal(t, []int64{1, 2}, ids(tree))
	assert.Empty(t, tree[1].Replies)
}

func TestBuildNeverExceedsTwoLevels(t *testing.T) {
	tree := Build([]model.Comment{
		comment(1, nil),
		comment(2, ptr(1)),
		comment(3, ptr(2)),
	})

	require.Len(t, tree, 1)
	assert.Equal(t, []int64{2, 3}, ids(tree[0].Replies))
	for _, r := range tree[0].Replies {
		assert.Empty(t, r.Replies)
	}
}

func TestBuildCycleDoesNotHang(t *testing.T) {
	tree := Build([]model.Comment{comment(1, ptr(2)), comment(2, ptr(1))})
	assert.Equal(t, 2, Count(tree))
}

func TestBuildTrustsNestedInput(t *testing.T) {
	nested := []model.Comment{
		{ID: 1, Replies: []model.Comment{comment(2, ptr(1))}},
		comment(3, ptr(1)),
	}

	tree := Build(nested)
	assert.Equal(t, nested, tree)
}

func TestBuildIsIdempotent(t *testing.T) {
	inputs := [][]model.Comment{
		{comment(1, nil), comment(2, ptr(1)), comment(3, nil), comment(4, ptr(3)), comment(5, ptr(1))},
		{comment(1, nil), comment(2, ptr(42)), comment(3, ptr(1))},
		{comment(3, ptr(1)), comment(1, nil), comment(4, ptr(3))},
		{},
	}

	for _, in := range inputs {
		first := Build(in)
		again := Build(Flatten(first))
		assert.Equal(t, first, again)
	}
}

func TestRemoveTopLevelTakesReplies(t *testing.T) {
	tree := Build([]model.Comment{
		comment(1, nil),
		comment(2, ptr(1)),
		comment(3, ptr(1)),
		comment(4, nil),
	})

	out, ok := Remove(tree, 1)
	require.True(t, ok)
	assert.Equal(t, []int64{4}, ids(out))
	assert.Equal(t, 1, Count(out))
	// Input is untouched.
	assert.Equal(t, 4, Count(tree))
}

func TestRemoveReply(t *testing.T) {
	tree := Build([]model.Comment{comment(1, nil), comment(2, ptr(1)), comment(3, ptr(1))})

	out, ok := Remove(tree, 2)
	require.True(t, ok)
	assert.Equal(t, []int64{3}, ids(out[0].Replies))
	assert.Equal(t, []int64{2, 3}, ids(tree[0].Replies))

	_, ok = Remove(tree, 77)
	assert.False(t, ok)
}

func TestInsert(t *testing.T) {
	tree := Build([]model.Comment{comment(1, nil), comment(2, ptr(1))})

	tree = Insert(tree, comment(3, ptr(2)))
	tree = Insert(tree, comment(4, nil))
	tree = Insert(tree, comment(5, ptr(100)))

	assert.Equal(t, []int64{1, 4, 5}, ids(tree))
	assert.Equal(t, []int64{2, 3}, ids(tree[0].Replies))
}

func TestUpdate(t *testing.T) {
	tree := Build([]model.Comment{comment(1, nil), comment(2, ptr(1))})

	out, ok := Update(tree, 2, func(c *model.Comment) {
		c.UserLiked = true
		c.LikesCount++
	})
	require.True(t, ok)

	got, found := Find(out, 2)
	require.True(t, found)
	assert.True(t, got.UserLiked)
	assert.Equal(t, 1, got.LikesCount)

	orig, _ := Find(tree, 2)
	assert.False(t, orig.UserLiked)
}
