// Package favorites holds the favorites business logic shared by both
// storage backends.
package favorites

import (
	"context"
	"errors"

	"github.com/vaibhavisno-one/movierating/favorites/pkg/model"
)

// ErrInvalidInput is returned when a required identifier is missing.
var ErrInvalidInput = errors.New("user id and movie id are required")

type favoritesRepository interface {
	Save(ctx context.Context, userID string, favorite model.FavoriteMovie) error
	Remove(ctx context.Context, userID, movieID string) error
	IsFavorite(ctx context.Context, userID, movieID string) (bool, error)
	List(ctx context.Context, userID string) ([]model.FavoriteMovie, error)
}

// Controller validates requests and delegates to the configured repository.
type Controller struct {
	repo favoritesRepository
}

// New creates a favorites controller.
func New(repo favoritesRepository) *Controller {
	return &Controller{repo}
}

// Save marks the movie as a favorite for the user. Re-adding overwrites the
// existing record.
func (c *Controller) Save(ctx context.Context, userID string, favorite model.FavoriteMovie) error {
	if userID == "" || favorite.MovieID == "" {
		return ErrInvalidInput
	}
	return c.repo.Save(ctx, userID, favorite)
}

// Remove unmarks the movie for the user.
func (c *Controller) Remove(ctx context.Context, userID, movieID string) error {
	if userID == "" || movieID == "" {
		return ErrInvalidInput
	}
	return c.repo.Remove(ctx, userID, movieID)
}

// IsFavorite reports whether the user has favorited the movie.
func (c *Controller) IsFavorite(ctx context.Context, userID, movieID string) (bool, error) {
	if userID == "" || movieID == "" {
		return false, ErrInvalidInput
	}
	return c.repo.IsFavorite(ctx, userID, movieID)
}

// List returns the user's favorites. An unknown user yields an empty list.
func (c *Controller) List(ctx context.Context, userID string) ([]model.FavoriteMovie, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return c.repo.List(ctx, userID)
}
