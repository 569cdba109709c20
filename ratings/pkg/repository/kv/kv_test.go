package kv

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/internal/kvstore/memory"
	"github.com/vaibhavisno-one/movierating/ratings/pkg/model"
)

func TestSaveThenGet(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.New(), zap.NewNop())

	want := model.RatingReview{
		MovieID:        "42",
		Rating:         8,
		ReviewText:     "Great film",
		IntimacyRating: model.IntimacySome,
		TMDBID:         42,
		Title:          "Inception",
	}
	require.NoError(t, repo.Save(ctx, "u1", want))

	got, err := repo.Get(ctx, "u1", "42")
	require.NoError(t, err)
	require.NotNil(t, got)
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("rating mismatch (-want +got):\n%s", diff)
	}
}

func TestGetAbsentReturnsNil(t *testing.T) {
	repo := New(memory.New(), zap.NewNop())
	got, err := repo.Get(context.Background(), "u1", "42")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveFullyReplaces(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.New(), zap.NewNop())

	first := model.RatingReview{
		MovieID:        "42",
		Rating:         9,
		ReviewText:     "Loved it",
		IntimacyRating: model.IntimacyMost,
		TMDBID:         42,
		Title:          "Inception",
		PosterPath:     "/inception.jpg",
	}
	require.NoError(t, repo.Save(ctx, "u1", first))

	// Second submission carries no movie details; none of the old fields
	// may survive.
	second := model.RatingReview{
		MovieID:        "42",
		Rating:         3,
		ReviewText:     "Changed my mind",
		IntimacyRating: model.IntimacyLittle,
	}
	require.NoError(t, repo.Save(ctx, "u1", second))

	got, err := repo.Get(ctx, "u1", "42")
	require.NoError(t, err)
	require.NotNil(t, got)
	if diff := cmp.Diff(second, *got); diff != "" {
		t.Errorf("rating mismatch (-want +got):\n%s", diff)
	}

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListByUserIsScoped(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.New(), zap.NewNop())

	for _, id := range []string{"1", "2"} {
		require.NoError(t, repo.Save(ctx, "a", model.RatingReview{
			MovieID: id, Rating: 7, IntimacyRating: model.IntimacySome,
		}))
	}
	require.NoError(t, repo.Save(ctx, "b", model.RatingReview{
		MovieID: "3", Rating: 5, IntimacyRating: model.IntimacyLittle,
	}))

	list, err := repo.ListByUser(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, rv := range list {
		assert.NotEqual(t, "3", rv.MovieID)
	}
}
