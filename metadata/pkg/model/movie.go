package model

// Movie is a movie list entry as returned by the movie metadata API.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	OriginalLanguage string  `json:"original_language"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
}

// MoviePage is one page of a listing or search result.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Genre is a genre attached to a movie detail.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetail is the full record for a single movie.
type MovieDetail struct {
	Movie
	Tagline string  `json:"tagline"`
	Runtime int     `json:"runtime"`
	Genres  []Genre `json:"genres"`
}
