package help

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/animefeed/internal/keys"
)

func TestViewListsSectionsAndCommands(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 160, 40)
	out := m.View()

	for _, s := range sections {
		assert.Contains(t, out, s.title)
	}
	assert.Contains(t, out, ":markread")
	assert.Contains(t, out, "like")
}
