// Package kv implements the favorites repository on the flat key-value
// store. Records live under favorite_<userId>_<movieId>, so a user's
// favorites are exactly the records under the favorite_<userId>_ prefix.
package kv

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/favorites/pkg/model"
	"github.com/vaibhavisno-one/movierating/internal/kvstore"
)

const keyPrefix = "favorite_"

// Repository is a key-value-store-backed favorites repository.
type Repository struct {
	records *kvstore.Records
	logger  *zap.Logger
}

// New creates a favorites repository over the given store.
func New(store kvstore.Store, logger *zap.Logger) *Repository {
	return &Repository{records: kvstore.NewRecords(store, logger), logger: logger}
}

func key(userID, movieID string) string {
	return keyPrefix + userID + "_" + movieID
}

// Save stores the favorite for the user, overwriting any existing record for
// the same (user, movie) pair. Missing ids are logged and the call has no
// effect; storage failures degrade to a no-op per the store policy.
func (r *Repository) Save(ctx context.Context, userID string, favorite model.FavoriteMovie) error {
	if userID == "" || favorite.MovieID == "" {
		r.logger.Error("User id and movie id are required to save a favorite")
		return nil
	}
	_ = r.records.Put(ctx, key(userID, favorite.MovieID), favorite)
	return nil
}

// Remove deletes the user's favorite for the movie. Absent records and
// missing ids are no-ops.
func (r *Repository) Remove(ctx context.Context, userID, movieID string) error {
	if userID == "" || movieID == "" {
		r.logger.Error("User id and movie id are required to remove a favorite")
		return nil
	}
	_ = r.records.Delete(ctx, key(userID, movieID))
	return nil
}

// IsFavorite reports whether the user has favorited the movie. A record
// that fails to parse behaves as absent.
func (r *Repository) IsFavorite(ctx context.Context, userID, movieID string) (bool, error) {
	if userID == "" || movieID == "" {
		return false, nil
	}
	var f model.FavoriteMovie
	found, _ := r.records.Get(ctx, key(userID, movieID), &f)
	return found, nil
}

// List returns all of the user's favorites, in no particular order.
// Malformed records are skipped.
func (r *Repository) List(ctx context.Context, userID string) ([]model.FavoriteMovie, error) {
	if userID == "" {
		r.logger.Error("User id is required to list favorites")
		return nil, nil
	}
	var favorites []model.FavoriteMovie
	_ = r.records.Scan(ctx, keyPrefix+userID+"_", func(raw []byte) error {
		var f model.FavoriteMovie
		if err := json.Unmarshal(raw, &f); err != nil {
			return err
		}
		favorites = append(favorites, f)
		return nil
	})
	return favorites, nil
}
