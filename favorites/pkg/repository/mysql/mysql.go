// Package mysql implements the favorites repository on MySQL. The table
// keys rows by the composite primary key (user_id, movie_id), so the
// at-most-one-favorite-per-pair invariant is enforced by the schema and a
// re-add is a plain upsert.
//
// Schema:
//
//	CREATE TABLE favorites (
//	    user_id      VARCHAR(255) NOT NULL,
//	    movie_id     VARCHAR(64)  NOT NULL,
//	    tmdb_id      INT          NOT NULL,
//	    title        VARCHAR(512) NOT NULL,
//	    poster_path  VARCHAR(255) NOT NULL DEFAULT '',
//	    release_date VARCHAR(32)  NOT NULL DEFAULT '',
//	    PRIMARY KEY (user_id, movie_id)
//	);
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/vaibhavisno-one/movierating/favorites/pkg/model"
)

// Repository is a MySQL-backed favorites repository.
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

// Save upserts the user's favorite for the movie.
func (r *Repository) Save(ctx context.Context, userID string, favorite model.FavoriteMovie) error {
	if userID == "" || favorite.MovieID == "" {
		return ErrMissingID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, movie_id, tmdb_id, title, poster_path, release_date)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE tmdb_id = VALUES(tmdb_id), title = VALUES(title),
		 poster_path = VALUES(poster_path), release_date = VALUES(release_date)`,
		userID, favorite.MovieID, favorite.TMDBID, favorite.Title,
		favorite.PosterPath, favorite.ReleaseDate)
	return err
}

// Remove deletes the user's favorite for the movie. Absent rows are a no-op.
func (r *Repository) Remove(ctx context.Context, userID, movieID string) error {
	if userID == "" || movieID == "" {
		return ErrMissingID
	}
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = ? AND movie_id = ?", userID, movieID)
	return err
}

// IsFavorite reports whether the user has favorited the movie.
func (r *Repository) IsFavorite(ctx context.Context, userID, movieID string) (bool, error) {
	if userID == "" || movieID == "" {
		return false, nil
	}
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM favorites WHERE user_id = ? AND movie_id = ?", userID, movieID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns all of the user's favorites.
func (r *Repository) List(ctx context.Context, userID string) ([]model.FavoriteMovie, error) {
	if userID == "" {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT movie_id, tmdb_id, title, poster_path, release_date
		 FROM favorites WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []model.FavoriteMovie
	for rows.Next() {
		var f model.FavoriteMovie
		if err := rows.Scan(&f.MovieID, &f.TMDBID, &f.Title, &f.PosterPath, &f.ReleaseDate); err != nil {
			return nil, err
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}
