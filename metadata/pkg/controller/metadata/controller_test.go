package metadata

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/metadata/pkg/repository"
	"github.com/vaibhavisno-one/movierating/metadata/pkg/repository/memory"
	"github.com/vaibhavisno-one/movierating/metadata/pkg/model"
)

type fakeGateway struct {
	detailCalls int
	detail      *model.MovieDetail
	err         error
}

func (f *fakeGateway) SearchMovies(ctx context.Context, query, language string) (*model.MoviePage, error) {
	return &model.MoviePage{}, f.err
}

func (f *fakeGateway) GetPopularMovies(ctx context.Context, page int, language string) (*model.MoviePage, error) {
	return &model.MoviePage{}, f.err
}

func (f *fakeGateway) GetMoviesByGenre(ctx context.Context, genreID, page int, language string) (*model.MoviePage, error) {
	return &model.MoviePage{}, f.err
}

func (f *fakeGateway) GetMoviesByMood(ctx context.Context, mood string, page int) (*model.MoviePage, error) {
	return &model.MoviePage{}, f.err
}

func (f *fakeGateway) GetMovieDetails(ctx context.Context, id int) (*model.MovieDetail, error) {
	f.detailCalls++
	return f.detail, f.err
}

func TestGetMovieDetailsReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{detail: &model.MovieDetail{
		Movie: model.Movie{ID: 27205, Title: "Inception"},
	}}
	ctrl := New(gw, memory.New(), zap.NewNop())

	first, err := ctrl.GetMovieDetails(ctx, 27205)
	require.NoError(t, err)
	assert.Equal(t, "Inception", first.Title)
	assert.Equal(t, 1, gw.detailCalls)

	second, err := ctrl.GetMovieDetails(ctx, 27205)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, gw.detailCalls, "second lookup must be served from the cache")
}

func TestGetMovieDetailsGatewayError(t *testing.T) {
	gw := &fakeGateway{err: assert.AnError}
	ctrl := New(gw, memory.New(), zap.NewNop())

	_, err := ctrl.GetMovieDetails(context.Background(), 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestGetMovieDetailsUnknownMovie(t *testing.T) {
	gw := &fakeGateway{err: fmt.Errorf("no record: %w", repository.ErrNotFound)}
	ctrl := New(gw, memory.New(), zap.NewNop())

	_, err := ctrl.GetMovieDetails(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}
