package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/animefeed/internal/store"
	"github.com/nhle/animefeed/tests/testutil"
)

func TestKVRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "saved_activities")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "saved_activities", `["review|1|2"]`))
	got, err := s.Get(ctx, "saved_activities")
	require.NoError(t, err)
	assert.Equal(t, `["review|1|2"]`, got)

	require.NoError(t, s.Set(ctx, "saved_activities", `[]`))
	got, err = s.Get(ctx, "saved_activities")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)

	require.NoError(t, s.Delete(ctx, "saved_activities"))
	require.NoError(t, s.Delete(ctx, "saved_activities"))
	_, err = s.Get(ctx, "saved_activities")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReopenKeepsValuesAndSkipsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animefeed.db")
	ctx := context.Background()

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
