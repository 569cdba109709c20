package ratings

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/internal/kvstore/memory"
	"github.com/vaibhavisno-one/movierating/ratings/pkg/repository/kv"
	"github.com/vaibhavisno-one/movierating/ratings/pkg/model"
)

func newController(t *testing.T) (*Controller, *kv.Repository) {
	t.Helper()
	repo := kv.New(memory.New(), zap.NewNop())
	return New(repo, nil, []string{"badword1", "badword2"}, zap.NewNop()), repo
}

func TestSaveComposesRecord(t *testing.T) {
	ctx := context.Background()
	ctrl, repo := newController(t)

	err := ctrl.Save(ctx, "u1", "42", 8, "Great film", model.IntimacySome,
		&model.MovieDetails{TMDBID: 42, Title: "Inception"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "u1", "42")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.RatingReview{
		MovieID:        "42",
		Rating:         8,
		ReviewText:     "Great film",
		IntimacyRating: model.IntimacySome,
		TMDBID:         42,
		Title:          "Inception",
	}, *got)
}

func TestSaveRejectsTooLongReview(t *testing.T) {
	ctx := context.Background()
	ctrl, repo := newController(t)

	err := ctrl.Save(ctx, "u1", "42", 8, strings.Repeat("x", 1001), model.IntimacySome, nil)
	assert.ErrorIs(t, err, ErrReviewTooLong)

	got, err := repo.Get(ctx, "u1", "42")
	require.NoError(t, err)
	assert.Nil(t, got, "rejected review must never be persisted")
}

func TestSaveAcceptsMaxLengthReview(t *testing.T) {
	ctrl, _ := newController(t)
	err := ctrl.Save(context.Background(), "u1", "42", 8,
		strings.Repeat("x", 1000), model.IntimacySome, nil)
	assert.NoError(t, err)
}

func TestSaveCountsReviewLengthInCharacters(t *testing.T) {
	ctx := context.Background()
	ctrl, repo := newController(t)

	// 1000 two-byte characters must pass; the limit is on characters,
	// not bytes.
	err := ctrl.Save(ctx, "u1", "42", 8,
		strings.Repeat("é", 1000), model.IntimacySome, nil)
	require.NoError(t, err)

	got, err := repo.Get(ctx, "u1", "42")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, strings.Repeat("é", 1000), got.ReviewText)

	err = ctrl.Save(ctx, "u1", "43", 8,
		strings.Repeat("é", 1001), model.IntimacySome, nil)
	assert.ErrorIs(t, err, ErrReviewTooLong)
}

func TestSaveRejectsProfanityCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	ctrl, repo := newController(t)

	err := ctrl.Save(ctx, "u1", "42", 8, "this was BadWord1 honestly", model.IntimacySome, nil)
	assert.ErrorIs(t, err, ErrReviewRejected)

	got, err := repo.Get(ctx, "u1", "42")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveStripsMarkup(t *testing.T) {
	ctx := context.Background()
	ctrl, repo := newController(t)

	err := ctrl.Save(ctx, "u1", "42", 8,
		`<script>alert(1)</script><b>bold</b> &amp; plain`, model.IntimacySome, nil)
	require.NoError(t, err)

	got, err := repo.Get(ctx, "u1", "42")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotContains(t, got.ReviewText, "<")
	assert.Contains(t, got.ReviewText, "bold & plain")
}

func TestSaveValidation(t *testing.T) {
	ctx := context.Background()
	ctrl, _ := newController(t)

	assert.ErrorIs(t, ctrl.Save(ctx, "", "42", 8, "ok", model.IntimacySome, nil), ErrInvalidInput)
	assert.ErrorIs(t, ctrl.Save(ctx, "u1", "", 8, "ok", model.IntimacySome, nil), ErrInvalidInput)
	assert.ErrorIs(t, ctrl.Save(ctx, "u1", "42", 0, "ok", model.IntimacySome, nil), ErrInvalidRating)
	assert.ErrorIs(t, ctrl.Save(ctx, "u1", "42", 11, "ok", model.IntimacySome, nil), ErrInvalidRating)
	assert.ErrorIs(t, ctrl.Save(ctx, "u1", "42", 8, "ok", model.IntimacyRating("Loads"), nil), ErrInvalidIntimacy)
}

type staticIngester struct {
	events []model.RatingEvent
}

func (s *staticIngester) Ingest(ctx context.Context) (chan model.RatingEvent, error) {
	ch := make(chan model.RatingEvent, len(s.events))
	for _, e := range s.events {
		ch <- e
	}
	close(ch)
	return ch, nil
}

func TestStartIngestionAppliesPutEvents(t *testing.T) {
	ctx := context.Background()
	repo := kv.New(memory.New(), zap.NewNop())
	ingester := &staticIngester{events: []model.RatingEvent{
		{UserID: "u1", MovieID: "1", Rating: 7, IntimacyRating: model.IntimacySome, EventType: model.RatingEventTypePut},
		{UserID: "u1", MovieID: "2", Rating: 4, IntimacyRating: model.IntimacyLittle, EventType: model.RatingEventTypeDelete},
		{UserID: "u1", MovieID: "3", Rating: 99, IntimacyRating: model.IntimacySome, EventType: model.RatingEventTypePut},
	}}
	ctrl := New(repo, ingester, nil, zap.NewNop())

	require.NoError(t, ctrl.StartIngestion(ctx))

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	// Only the valid put event lands: deletes are unsupported and the
	// out-of-range rating is skipped.
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0].MovieID)
}
