// Package commenttree shapes an activity's comments into a two-level
// thread: top-level comments, each owning its replies.
package commenttree

import "github.com/nhle/animefeed/internal/model"

// IsNested reports whether the server already nested replies.
func IsNested(comments []model.Comment) bool {
	for _, c := range comments {
		if len(c.Replies) > 0 {
			return true
		}
	}
	return false
}

// Build returns the thread for comments. Input that is already nested is
// returned as is. Flat input is grouped in one pass: a comment whose
// parent resolves goes under that parent's top-level ancestor, and a
// comment whose parent is missing is kept as a top-level comment.
// Top-level order and reply order follow the input.
func Build(comments []model.Comment) []model.Comment {
	if IsNested(comments) {
		return comments
	}

	byID := make(map[int64]int, len(comments))
	for i, c := range comments {
		byID[c.ID] = i
	}

	rootOf := make([]int, len(comments))
	for i := range comments {
		rootOf[i] = findRoot(comments, byID, i)
	}

	replies := make(map[int][]model.Comment)
	for i, c := range comments {
		if r := rootOf[i]; r != i {
			c.Replies = nil
			replies[r] = append(replies[r], c)
		}
	}

	var tree []model.Comment
	for i, c := range comments {
		if rootOf[i] != i {
			continue
		}
		c.Replies = replies[i]
		tree = append(tree, c)
	}
	return tree
}

// findRoot follows parent links from comments[i] to the first comment
// without a resolvable parent. A cycle makes comments[i] its own root.
func findRoot(comments []model.Comment, byID map[int64]int, i int) int {
	cur := i
	for steps := 0; steps <= len(comments); steps++ {
		p := comments[cur].ParentCommentID
		if p == nil {
			return cur
		}
		next, ok := byID[*p]
		if !ok || next == cur {
			return cur
		}
		cur = next
	}
	return i
}

// Flatten lists the thread as top-level comments each followed by its
// replies, with Replies cleared.
func Flatten(tree []model.Comment) []model.Comment {
	var flat []model.Comment
	for _, c := range tree {
		replies := c.Replies
		c.Replies = nil
		flat = append(flat, c)
		for _, r := range replies {
			r.Replies = nil
			flat = append(flat, r)
		}
	}
	return flat
}

// Count returns the number of comments in the thread, replies included.
func Count(tree []model.Comment) int {
	n := 0
	for _, c := range tree {
		n += 1 + len(c.Replies)
	}
	return n
}

// Find returns the comment with id, searching replies too.
func Find(tree []model.Comment, id int64) (model.Comment, bool) {
	for _, c := range tree {
		if c.ID == id {
			return c, true
		}
		for _, r := range c.Replies {
			if r.ID == id {
				return r, true
			}
		}
	}
	return model.Comment{}, false
}

// Insert adds c to a copy of the thread. Replies land at the end of
// their top-level ancestor's replies; anything else is appended as a
// top-level comment.
func Insert(tree []model.Comment, c model.Comment) []model.Comment {
	out := clone(tree)
	if c.ParentCommentID != nil {
		pid := *c.ParentCommentID
		for i := range out {
			if out[i].ID == pid || containsReply(out[i], pid) {
				c.Replies = nil
				out[i].Replies = append(out[i].Replies, c)
				return out
			}
		}
	}
	return append(out, c)
}

// Remove deletes the comment with id from a copy of the thread. Removing
// a top-level comment drops its replies with it.
func Remove(tree []model.Comment, id int64) ([]model.Comment, bool) {
	out := make([]model.Comment, 0, len(tree))
	found := false
	for _, c := range tree {
		if c.ID == id {
			found = true
			continue
		}
		if containsReply(c, id) {
			found = true
			kept := make([]model.Comment, 0, len(c.Replies)-1)
			for _, r := range c.Replies {
				if r.ID != id {
					kept = append(kept, r)
				}
			}
			c.Replies = kept
		}
		out = append(out, c)
	}
	return out, found
}

// Update applies fn to the comment with id in a copy of the thread.
func Update(tree []model.Comment, id int64, fn func(*model.Comment)) ([]model.Comment, bool) {
	out := clone(tree)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
			return out, true
		}
		for j := range out[i].Replies {
			if out[i].Replies[j].ID == id {
				fn(&out[i].Replies[j])
				return out, true
			}
		}
	}
	return out, false
}

func containsReply(c model.Comment, id int64) bool {
	for _, r := range c.Replies {
		if r.ID == id {
			return true
		}
	}
	return false
}

// clone copies the thread deeply enough that callers can mutate replies.
func clone(tree []model.Comment) []model.Comment {
	out := make([]model.Comment, len(tree))
	for i, c := range tree {
		if c.Replies != nil {
			c.Replies = append([]model.Comment(nil), c.Replies...)
		}
		out[i] = c
	}
	return out
}
