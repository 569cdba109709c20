// Package mysql implements the ratings repository on MySQL. Rows are keyed
// by the composite primary key (user_id, movie_id) with the external movie
// id stored directly, so a repeated submission is an upsert and there is no
// find-or-create step to race on.
//
// Schema:
//
//	CREATE TABLE ratings (
//	    user_id         VARCHAR(255) NOT NULL,
//	    movie_id        VARCHAR(64)  NOT NULL,
//	    rating          INT          NOT NULL,
//	    review_text     TEXT         NOT NULL,
//	    intimacy_rating VARCHAR(16)  NOT NULL,
//	    tmdb_id         INT          NOT NULL DEFAULT 0,
//	    title           VARCHAR(512) NOT NULL DEFAULT '',
//	    poster_path     VARCHAR(255) NOT NULL DEFAULT '',
//	    PRIMARY KEY (user_id, movie_id)
//	);
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/vaibhavisno-one/movierating/ratings/pkg/model"
)

// Repository is a MySQL-backed ratings repository.
type Repository struct {
	db *sql.DB
}

// ErrMissingID is returned when a required identifier is empty.
var ErrMissingID = errors.New("user id and movie id are required")

// New opens a connection to MySQL with the given DSN.
func New(dsn string) (*Repository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	return &Repository{db: db}, nil
}

// NewWithDB wraps an existing database handle, mainly for tests.
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save upserts the user's rating for the movie, replacing every column of
// any existing row.
func (r *Repository) Save(ctx context.Context, userID string, review model.RatingReview) error {
	if userID == "" || review.MovieID == "" {
		return ErrMissingID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ratings (user_id, movie_id, rating, review_text, intimacy_rating, tmdb_id, title, poster_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE rating = VALUES(rating), review_text = VALUES(review_text),
		 intimacy_rating = VALUES(intimacy_rating), tmdb_id = VALUES(tmdb_id),
		 title = VALUES(title), poster_path = VALUES(poster_path)`,
		userID, review.MovieID, review.Rating, review.ReviewText,
		string(review.IntimacyRating), review.TMDBID, review.Title, review.PosterPath)
	return err
}

// Get returns the user's rating for the movie, or nil when absent.
func (r *Repository) Get(ctx context.Context, userID, movieID string) (*model.RatingReview, error) {
	if userID == "" || movieID == "" {
		return nil, nil
	}
	var review model.RatingReview
	var intimacy string
	err := r.db.QueryRowContext(ctx,
		`SELECT movie_id, rating, review_text, intimacy_rating, tmdb_id, title, poster_path
		 FROM ratings WHERE user_id = ? AND movie_id = ?`, userID, movieID).
		Scan(&review.MovieID, &review.Rating, &review.ReviewText, &intimacy,
			&review.TMDBID, &review.Title, &review.PosterPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	review.IntimacyRating = model.IntimacyRating(intimacy)
	return &review, nil
}

// ListByUser returns all of the user's ratings.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]model.RatingReview, error) {
	if userID == "" {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT movie_id, rating, review_text, intimacy_rating, tmdb_id, title, poster_path
		 FROM ratings WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []model.RatingReview
	for rows.Next() {
		var review model.RatingReview
		var intimacy string
		if err := rows.Scan(&review.MovieID, &review.Rating, &review.ReviewText, &intimacy,
			&review.TMDBID, &review.Title, &review.PosterPath); err != nil {
			return nil, err
		}
		review.IntimacyRating = model.IntimacyRating(intimacy)
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
