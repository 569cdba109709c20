// Package http exposes the favorites controller over JSON/HTTP.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/favorites/pkg/controller/favorites"
	"github.com/vaibhavisno-one/movierating/favorites/pkg/model"
	"github.com/vaibhavisno-one/movierating/internal/httputil"
)

// Handler serves the /favorites endpoint.
type Handler struct {
	ctrl   *favorites.Controller
	logger *zap.Logger
}

// New creates a favorites HTTP handler.
func New(ctrl *favorites.Controller, logger *zap.Logger) *Handler {
	return &Handler{ctrl: ctrl, logger: logger}
}

// Handle dispatches on method: GET lists favorites (or checks one when a
// movie id is supplied), PUT saves one, DELETE removes one.
func (h *Handler) Handle(w http.ResponseWriter, req *http.Request) {
	userID := req.FormValue("userId")
	movieID := req.FormValue("movieId")
	ctx := req.Context()

	switch req.Method {
	case http.MethodGet:
		if movieID != "" {
			fav, err := h.ctrl.IsFavorite(ctx, userID, movieID)
			if err != nil {
				h.respondControllerError(w, err)
				return
			}
			httputil.RespondJSON(w, http.StatusOK, map[string]bool{"favorite": fav})
			return
		}
		list, err := h.ctrl.List(ctx, userID)
		if err != nil {
			h.respondControllerError(w, err)
			return
		}
		if list == nil {
			list = []model.FavoriteMovie{}
		}
		httputil.RespondJSON(w, http.StatusOK, list)
	case http.MethodPut:
		var favorite model.FavoriteMovie
		if err := json.NewDecoder(req.Body).Decode(&favorite); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := h.ctrl.Save(ctx, userID, favorite); err != nil {
			h.respondControllerError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := h.ctrl.Remove(ctx, userID, movieID); err != nil {
			h.respondControllerError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) respondControllerError(w http.ResponseWriter, err error) {
	if errors.Is(err, favorites.ErrInvalidInput) {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("Favorites request failed", zap.Error(err))
	httputil.RespondError(w, http.StatusInternalServerError, "internal error")
}
