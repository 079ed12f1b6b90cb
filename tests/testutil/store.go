package testutil

import (
	"context"
	"testing"

	"github.com/nhle/animefeed/internal/store"
)

// NewTestStore opens an in-memory SQLite KV store with migrations applied
// and closes it when the test ends.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})
	return s
}

// SeedKV writes each pair into kv, failing the test on the first error.
func SeedKV(t *testing.T, kv store.KV, pairs map[string]string) {
	t.Helper()

	for k, v := range pairs {
		if err := kv.Set(context.Background(), k, v); err != nil {
			t.Fatalf("seeding %q: %v", k, err)
		}
	}
}
