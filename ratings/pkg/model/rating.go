package model

// IntimacyRating is the categorical tag a user attaches to a review.
type IntimacyRating string

const (
	IntimacyLittle   = IntimacyRating("Little")
	IntimacySome     = IntimacyRating("Some")
	IntimacyVeryMuch = IntimacyRating("Very Much")
	IntimacyMost     = IntimacyRating("Most")
)

// Valid reports whether the value is one of the four defined tags.
func (i IntimacyRating) Valid() bool {
	switch i {
	case IntimacyLittle, IntimacySome, IntimacyVeryMuch, IntimacyMost:
		return true
	}
	return false
}

// RatingReview is a user's single rating, review text and intimacy tag for
// one movie. Submitting again fully replaces the previous record.
type RatingReview struct {
	MovieID        string         `json:"movieId"`
	Rating         int            `json:"rating"`
	ReviewText     string         `json:"reviewText"`
	IntimacyRating IntimacyRating `json:"intimacyRating"`
	TMDBID         int            `json:"tmdbId,omitempty"`
	Title          string         `json:"title,omitempty"`
	PosterPath     string         `json:"posterPath,omitempty"`
}

// MovieDetails carries the optional movie metadata merged into a rating
// record on save.
type MovieDetails struct {
	TMDBID     int    `json:"tmdbId,omitempty"`
	Title      string `json:"title,omitempty"`
	PosterPath string `json:"posterPath,omitempty"`
}

// RatingEventType is the kind of a rating event.
type RatingEventType string

const (
	RatingEventTypePut    = RatingEventType("put")
	RatingEventTypeDelete = RatingEventType("delete")
)

// RatingEvent is a rating submission flowing through the event stream.
type RatingEvent struct {
	UserID         string          `json:"userId"`
	MovieID        string          `json:"movieId"`
	Rating         int             `json:"rating"`
	ReviewText     string          `json:"reviewText"`
	IntimacyRating IntimacyRating  `json:"intimacyRating"`
	ProviderID     string          `json:"providerId"`
	EventType      RatingEventType `json:"eventType"`
}
