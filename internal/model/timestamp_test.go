package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampZonelessIsUTC(t *testing.T) {
	zoneless, err := ParseTimestamp("2024-03-01T10:00:00")
	require.NoError(t, err)

	explicit, err := ParseTimestamp("2024-03-01T10:00:00Z")
	require.NoError(t, err)

	assert.True(t, zoneless.Equal(explicit))
	assert.Equal(t, time.UTC, zoneless.Location())
}

func TestParseTimestampFormats(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 0, 0, 500000000, time.UTC)

	cases := []string{
		"2024-03-01T10:00:00.5",
		"2024-03-01 10:00:00.5",
		"2024-03-01T10:00:00.5Z",
		"2024-03-01T12:00:00.5+02:00",
	}
	for _, in := range cases {
		got, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestTimestampUnmarshal(t *testing.T) {
	var payload struct {
		At   Timestamp `json:"at"`
		Gone Timestamp `json:"gone"`
	}
	err := json.Unmarshal([]byte(`{"at":"2024-01-02 03:04:05","gone":null}`), &payload)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), payload.At.Time)
	assert.True(t, payload.Gone.IsZero())
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", NewTimestamp(now.Add(-10*time.Second)).TimeAgo(now))
	assert.Equal(t, "5m ago", NewTimestamp(now.Add(-5*time.Minute)).TimeAgo(now))
	assert.Equal(t, "3h ago", NewTimestamp(now.Add(-3*time.Hour)).TimeAgo(now))
	assert.Equal(t, "2d ago", NewTimestamp(now.Add(-48*time.Hour)).TimeAgo(now))
	assert.Equal(t, "2024-01-01", NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).TimeAgo(now))
	assert.Equal(t, "", Timestamp{}.TimeAgo(now))
}
