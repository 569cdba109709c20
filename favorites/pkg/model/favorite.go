package model

// FavoriteMovie is a user's marking of a movie, with enough denormalized
// metadata to render a list without refetching from the movie API.
type FavoriteMovie struct {
	MovieID     string `json:"movieId"`
	TMDBID      int    `json:"tmdbId"`
	Title       string `json:"title"`
	PosterPath  string `json:"posterPath,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
}
