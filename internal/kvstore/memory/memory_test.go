package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaibhavisno-one/movierating/internal/kvstore"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "a", "2"))
	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestStoreScanPrefix(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Set(ctx, "favorite_u1_1", "a"))
	require.NoError(t, s.Set(ctx, "favorite_u1_2", "b"))
	require.NoError(t, s.Set(ctx, "favorite_u2_1", "c"))
	require.NoError(t, s.Set(ctx, "rating_u1_1", "d"))

	entries, err := s.ScanPrefix(ctx, "favorite_u1_")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, e := range entries {
		assert.Contains(t, []string{"favorite_u1_1", "favorite_u1_2"}, e.Key)
	}

	entries, err = s.ScanPrefix(ctx, "favorite_u3_")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
