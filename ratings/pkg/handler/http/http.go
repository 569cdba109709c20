// Package http exposes the ratings controller over JSON/HTTP.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/internal/httputil"
	"github.com/vaibhavisno-one/movierating/ratings/pkg/controller/ratings"
	"github.com/vaibhavisno-one/movierating/ratings/pkg/model"
)

// Handler serves the /ratings endpoints.
type Handler struct {
	ctrl   *ratings.Controller
	logger *zap.Logger
}

// New creates a ratings HTTP handler.
func New(ctrl *ratings.Controller, logger *zap.Logger) *Handler {
	return &Handler{ctrl: ctrl, logger: logger}
}

type saveRequest struct {
	Rating         int                  `json:"rating"`
	ReviewText     string               `json:"reviewText"`
	IntimacyRating model.IntimacyRating `json:"intimacyRating"`
	MovieDetails   *model.MovieDetails  `json:"movieDetails,omitempty"`
}

// Handle dispatches on method: GET returns the user's rating for a movie,
// PUT submits one.
func (h *Handler) Handle(w http.ResponseWriter, req *http.Request) {
	userID := req.FormValue("userId")
	movieID := req.FormValue("movieId")
	ctx := req.Context()

	switch req.Method {
	case http.MethodGet:
		review, err := h.ctrl.Get(ctx, userID, movieID)
		if err != nil {
			h.respondControllerError(w, err)
			return
		}
		if review == nil {
			httputil.RespondError(w, http.StatusNotFound, "no rating for this movie")
			return
		}
		httputil.RespondJSON(w, http.StatusOK, review)
	case http.MethodPut:
		var body saveRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		err := h.ctrl.Save(ctx, userID, movieID, body.Rating, body.ReviewText,
			body.IntimacyRating, body.MovieDetails)
		if err != nil {
			h.respondControllerError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// HandleList serves the user's full rating history.
func (h *Handler) HandleList(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	reviews, err := h.ctrl.ListByUser(req.Context(), req.FormValue("userId"))
	if err != nil {
		h.respondControllerError(w, err)
		return
	}
	if reviews == nil {
		reviews = []model.RatingReview{}
	}
	httputil.RespondJSON(w, http.StatusOK, reviews)
}

func (h *Handler) respondControllerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ratings.ErrInvalidInput),
		errors.Is(err, ratings.ErrInvalidRating),
		errors.Is(err, ratings.ErrInvalidIntimacy),
		errors.Is(err, ratings.ErrReviewTooLong),
		errors.Is(err, ratings.ErrReviewRejected):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Ratings request failed", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
