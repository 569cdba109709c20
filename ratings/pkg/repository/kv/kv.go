// Package kv implements the ratings repository on the flat key-value store.
// Records live under rating_<userId>_<movieId>.
package kv

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/internal/kvstore"
	"github.com/vaibhavisno-one/movierating/ratings/pkg/model"
)

const keyPrefix = "rating_"

// Repository is a key-value-store-backed ratings repository.
type Repository struct {
	records *kvstore.Records
	logger  *zap.Logger
}

// New creates a ratings repository over the given store.
func New(store kvstore.Store, logger *zap.Logger) *Repository {
	return &Repository{records: kvstore.NewRecords(store, logger), logger: logger}
}

func key(userID, movieID string) string {
	return keyPrefix + userID + "_" + movieID
}

// Save stores the user's rating for the movie, fully replacing any previous
// record under the same key. Missing ids are logged and the call has no
// effect.
func (r *Repository) Save(ctx context.Context, userID string, review model.RatingReview) error {
	if userID == "" || review.MovieID == "" {
		r.logger.Error("User id and movie id are required to save a rating")
		return nil
	}
	_ = r.records.Put(ctx, key(userID, review.MovieID), review)
	return nil
}

// Get returns the user's rating for the movie, or nil when absent or
// unreadable.
func (r *Repository) Get(ctx context.Context, userID, movieID string) (*model.RatingReview, error) {
	if userID == "" || movieID == "" {
		return nil, nil
	}
	var review model.RatingReview
	found, _ := r.records.Get(ctx, key(userID, movieID), &review)
	if !found {
		return nil, nil
	}
	return &review, nil
}

// ListByUser returns all of the user's ratings, in no particular order.
// Malformed records are skipped.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]model.RatingReview, error) {
	if userID == "" {
		r.logger.Error("User id is required to list ratings")
		return nil, nil
	}
	var reviews []model.RatingReview
	_ = r.records.Scan(ctx, keyPrefix+userID+"_", func(raw []byte) error {
		var rv model.RatingReview
		if err := json.Unmarshal(raw, &rv); err != nil {
			return err
		}
		reviews = append(reviews, rv)
		return nil
	})
	return reviews, nil
}
