// Package ratings holds the rating/review business logic: input validation,
// review moderation and sanitization, and ingestion of rating events from
// the stream. The repository below it stores whatever text it is given;
// everything that must happen before storage happens here.
package ratings

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/vaibhavisno-one/movierating/ratings/pkg/model"
)

const maxReviewLength = 1000

var (
	// ErrInvalidInput is returned when a required identifier is missing.
	ErrInvalidInput = errors.New("user id and movie id are required")
	// ErrInvalidRating is returned when the rating is outside 1-10.
	ErrInvalidRating = errors.New("rating must be between 1 and 10")
	// ErrInvalidIntimacy is returned for an unknown intimacy tag.
	ErrInvalidIntimacy = errors.New("intimacy rating must be one of Little, Some, Very Much, Most")
	// ErrReviewTooLong is returned when the review exceeds 1000 characters.
	ErrReviewTooLong = errors.New("review must be 1000 characters or less")
	// ErrReviewRejected is returned when the review matches the blocklist.
	ErrReviewRejected = errors.New("please keep the review family-friendly")
)

type ratingsRepository interface {
	Save(ctx context.Context, userID string, review model.RatingReview) error
	Get(ctx context.Context, userID, movieID string) (*model.RatingReview, error)
	ListByUser(ctx context.Context, userID string) ([]model.RatingReview, error)
}

// Ingester delivers rating events from the stream.
type Ingester interface {
	Ingest(ctx context.Context) (chan model.RatingEvent, error)
}

// Controller validates and moderates rating submissions before handing them
// to the configured repository.
type Controller struct {
	repo      ratingsRepository
	ingester  Ingester
	blocklist []string
	logger    *zap.Logger
}

// New creates a ratings controller. The blocklist holds lowercase tokens
// whose case-insensitive presence in a review rejects it; ingester may be
// nil when event ingestion is not configured.
func New(repo ratingsRepository, ingester Ingester, blocklist []string, logger *zap.Logger) *Controller {
	lowered := make([]string, len(blocklist))
	for i, w := range blocklist {
		lowered[i] = strings.ToLower(w)
	}
	return &Controller{repo: repo, ingester: ingester, blocklist: lowered, logger: logger}
}

// Save validates the submission, strips markup from the review and persists
// the composed record, fully replacing any prior rating for the pair.
// Nothing is persisted when validation fails.
func (c *Controller) Save(ctx context.Context, userID, movieID string, rating int,
	reviewText string, intimacy model.IntimacyRating, details *model.MovieDetails) error {
	if userID == "" || movieID == "" {
		return ErrInvalidInput
	}
	if rating < 1 || rating > 10 {
		return ErrInvalidRating
	}
	if !intimacy.Valid() {
		return ErrInvalidIntimacy
	}
	if utf8.RuneCountInString(reviewText) > maxReviewLength {
		return ErrReviewTooLong
	}
	lowered := strings.ToLower(reviewText)
	for _, w := range c.blocklist {
		if strings.Contains(lowered, w) {
			return ErrReviewRejected
		}
	}
	review := model.RatingReview{
		MovieID:        movieID,
		Rating:         rating,
		ReviewText:     stripMarkup(reviewText),
		IntimacyRating: intimacy,
	}
	if details != nil {
		review.TMDBID = details.TMDBID
		review.Title = details.Title
		review.PosterPath = details.PosterPath
	}
	return c.repo.Save(ctx, userID, review)
}

// Get returns the user's rating for the movie, or nil when there is none.
func (c *Controller) Get(ctx context.Context, userID, movieID string) (*model.RatingReview, error) {
	if userID == "" || movieID == "" {
		return nil, ErrInvalidInput
	}
	return c.repo.Get(ctx, userID, movieID)
}

// ListByUser returns all of the user's ratings.
func (c *Controller) ListByUser(ctx context.Context, userID string) ([]model.RatingReview, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return c.repo.ListByUser(ctx, userID)
}

// StartIngestion drains the event stream into the repository until the
// context is cancelled or the stream closes. Events that fail validation
// are logged and skipped; delete events are not applied because ratings
// have no deletion operation.
func (c *Controller) StartIngestion(ctx context.Context) error {
	ch, err := c.ingester.Ingest(ctx)
	if err != nil {
		return err
	}
	for e := range ch {
		if e.EventType != model.RatingEventTypePut {
			c.logger.Warn("Skipping unsupported rating event",
				zap.String("eventType", string(e.EventType)))
			continue
		}
		if err := c.Save(ctx, e.UserID, e.MovieID, e.Rating, e.ReviewText, e.IntimacyRating, nil); err != nil {
			c.logger.Warn("Skipping invalid rating event",
				zap.String("userId", e.UserID), zap.String("movieId", e.MovieID), zap.Error(err))
		}
	}
	return nil
}

// stripMarkup removes every tag and resolves entities, keeping only the
// text content.
func stripMarkup(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
