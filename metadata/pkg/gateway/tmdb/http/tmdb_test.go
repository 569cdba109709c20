package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/vaibhavisno-one/movierating/metadata/pkg/repository"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*Gateway, *url.Values) {
	t.Helper()
	var seen url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-key", rate.NewLimiter(rate.Inf, 1)), &seen
}

func pageBody(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"page":1,"results":[{"id":27205,"title":"Inception"}],"total_pages":3,"total_results":50}`))
}

func TestSearchMovies(t *testing.T) {
	g, seen := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		pageBody(w)
	})

	page, err := g.SearchMovies(context.Background(), "inception", "french")
	require.NoError(t, err)

	assert.Equal(t, "test-key", seen.Get("api_key"))
	assert.Equal(t, "inception", seen.Get("query"))
	assert.Equal(t, "fr", seen.Get("with_original_language"))
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Inception", page.Results[0].Title)
	assert.Equal(t, 3, page.TotalPages)
}

func TestSearchMoviesUnknownLanguageOmitsFilter(t *testing.T) {
	g, seen := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) { pageBody(w) })

	_, err := g.SearchMovies(context.Background(), "inception", "klingon")
	require.NoError(t, err)
	assert.False(t, seen.Has("with_original_language"))
}

func TestGetMoviesByMood(t *testing.T) {
	g, seen := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		pageBody(w)
	})

	_, err := g.GetMoviesByMood(context.Background(), "scary", 2)
	require.NoError(t, err)

	assert.Equal(t, "27,53", seen.Get("with_genres"))
	assert.Equal(t, "9718", seen.Get("with_keywords"))
	assert.Equal(t, "2", seen.Get("page"))
	assert.Equal(t, "popularity.desc", seen.Get("sort_by"))
}

func TestGetMoviesByMoodUnknownMood(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an unknown mood")
	})

	_, err := g.GetMoviesByMood(context.Background(), "bored", 1)
	assert.ErrorIs(t, err, ErrUnknownMood)
}

func TestGetMovieDetails(t *testing.T) {
	g, seen := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/27205", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":27205,"title":"Inception","runtime":148,"genres":[{"id":28,"name":"Action"}]}`))
	})

	detail, err := g.GetMovieDetails(context.Background(), 27205)
	require.NoError(t, err)

	assert.Equal(t, "keywords,watch/providers", seen.Get("append_to_response"))
	assert.Equal(t, 148, detail.Runtime)
	require.Len(t, detail.Genres, 1)
	assert.Equal(t, "Action", detail.Genres[0].Name)
}

func TestGetMovieDetailsUnknownMovie(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := g.GetMovieDetails(context.Background(), 999999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpstreamErrorSurfaces(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := g.GetPopularMovies(context.Background(), 1, "")
	assert.Error(t, err)
}
