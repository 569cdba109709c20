package kv

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/favorites/pkg/model"
	"github.com/vaibhavisno-one/movierating/internal/kvstore/memory"
)

func inception() model.FavoriteMovie {
	return model.FavoriteMovie{
		MovieID:     "42",
		TMDBID:      42,
		Title:       "Inception",
		PosterPath:  "/inception.jpg",
		ReleaseDate: "2010-07-16",
	}
}

func TestSaveThenQuery(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.New(), zap.NewNop())

	require.NoError(t, repo.Save(ctx, "u1", inception()))

	fav, err := repo.IsFavorite(ctx, "u1", "42")
	require.NoError(t, err)
	assert.True(t, fav)

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	if diff := cmp.Diff(inception(), list[0]); diff != "" {
		t.Errorf("favorite mismatch (-want +got):\n%s", diff)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.New(), zap.NewNop())

	require.NoError(t, repo.Save(ctx, "u1", inception()))
	require.NoError(t, repo.Remove(ctx, "u1", "42"))

	fav, err := repo.IsFavorite(ctx, "u1", "42")
	require.NoError(t, err)
	assert.False(t, fav)

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.New(), zap.NewNop())

	require.NoError(t, repo.Save(ctx, "u1", inception()))
	require.NoError(t, repo.Save(ctx, "u1", inception()))

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListIsScopedToUser(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.New(), zap.NewNop())

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, repo.Save(ctx, "a", model.FavoriteMovie{MovieID: id, Title: "A" + id}))
	}
	for _, id := range []string{"4", "5"} {
		require.NoError(t, repo.Save(ctx, "b", model.FavoriteMovie{MovieID: id, Title: "B" + id}))
	}

	listA, err := repo.List(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, listA, 3)
	for _, f := range listA {
		assert.NotContains(t, []string{"4", "5"}, f.MovieID)
	}

	listB, err := repo.List(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, listB, 2)
}

func TestMissingIDsHaveNoEffect(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.New(), zap.NewNop())

	require.NoError(t, repo.Save(ctx, "", inception()))
	require.NoError(t, repo.Save(ctx, "u1", model.FavoriteMovie{Title: "no id"}))

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	fav, err := repo.IsFavorite(ctx, "", "42")
	require.NoError(t, err)
	assert.False(t, fav)
}
