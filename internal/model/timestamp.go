package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// zonelessLayouts are the timestamp shapes the API emits without a zone
// designator. time.Parse places such values in UTC.
var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an API timestamp. Values that carry no zone
// designator are interpreted as UTC, never as local time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}

	for _, layout := range zonelessLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Timestamp is a time.Time that decodes API timestamps through
// ParseTimestamp so every parsed instant is normalized the same way.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t, normalized to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// UnmarshalJSON accepts a JSON string or null.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}
	if raw == "" {
		ts.Time = time.Time{}
		return nil
	}

	t, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	ts.Time = t
	return nil
}

// MarshalJSON writes the timestamp as RFC 3339 in UTC.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.UTC().Format(time.RFC3339Nano))
}

// TimeAgo renders a short relative duration ("5m ago", "3d ago") between
// ts and now.
func (ts Timestamp) TimeAgo(now time.Time) string {
	if ts.IsZero() {
		return ""
	}

	d := now.Sub(ts.Time)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return ts.UTC().Format("2006-01-02")
	}
}
