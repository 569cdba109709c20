// Package metadata mediates between the movie API gateway and the detail
// cache.
package metadata

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/metadata/pkg/repository"
	"github.com/vaibhavisno-one/movierating/metadata/pkg/model"
)

// ErrNotFound is returned when the movie is unknown to the metadata API.
var ErrNotFound = errors.New("not found")

type metadataGateway interface {
	SearchMovies(ctx context.Context, query, language string) (*model.MoviePage, error)
	GetPopularMovies(ctx context.Context, page int, language string) (*model.MoviePage, error)
	GetMoviesByGenre(ctx context.Context, genreID, page int, language string) (*model.MoviePage, error)
	GetMoviesByMood(ctx context.Context, mood string, page int) (*model.MoviePage, error)
	GetMovieDetails(ctx context.Context, id int) (*model.MovieDetail, error)
}

type detailCache interface {
	Get(ctx context.Context, id int) (*model.MovieDetail, error)
	Put(ctx context.Context, id int, detail *model.MovieDetail) error
}

// Controller serves movie discovery and detail lookups, reading details
// through the cache.
type Controller struct {
	gateway metadataGateway
	cache   detailCache
	logger  *zap.Logger
}

// New creates a metadata controller.
func New(gateway metadataGateway, cache detailCache, logger *zap.Logger) *Controller {
	return &Controller{gateway: gateway, cache: cache, logger: logger}
}

// SearchMovies searches by title.
func (c *Controller) SearchMovies(ctx context.Context, query, language string) (*model.MoviePage, error) {
	return c.gateway.SearchMovies(ctx, query, language)
}

// GetPopularMovies lists popular movies.
func (c *Controller) GetPopularMovies(ctx context.Context, page int, language string) (*model.MoviePage, error) {
	return c.gateway.GetPopularMovies(ctx, page, language)
}

// GetMoviesByGenre discovers movies for a genre.
func (c *Controller) GetMoviesByGenre(ctx context.Context, genreID, page int, language string) (*model.MoviePage, error) {
	return c.gateway.GetMoviesByGenre(ctx, genreID, page, language)
}

// GetMoviesByMood discovers movies for a mood key.
func (c *Controller) GetMoviesByMood(ctx context.Context, mood string, page int) (*model.MoviePage, error) {
	return c.gateway.GetMoviesByMood(ctx, mood, page)
}

// GetMovieDetails returns the detail record for a movie, from the cache
// when possible. Cache update failures are logged, not surfaced.
func (c *Controller) GetMovieDetails(ctx context.Context, id int) (*model.MovieDetail, error) {
	if cached, err := c.cache.Get(ctx, id); err == nil {
		return cached, nil
	}
	detail, err := c.gateway.GetMovieDetails(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := c.cache.Put(ctx, id, detail); err != nil {
		c.logger.Warn("Failed to update the movie detail cache",
			zap.Int("id", id), zap.Error(err))
	}
	return detail, nil
}
