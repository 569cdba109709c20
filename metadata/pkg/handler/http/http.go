// Package http exposes the metadata controller over JSON/HTTP.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/internal/httputil"
	"github.com/vaibhavisno-one/movierating/metadata/pkg/controller/metadata"
	tmdbgateway "github.com/vaibhavisno-one/movierating/metadata/pkg/gateway/tmdb/http"
)

// Handler serves the /movies endpoints.
type Handler struct {
	ctrl   *metadata.Controller
	logger *zap.Logger
}

// New creates a metadata HTTP handler.
func New(ctrl *metadata.Controller, logger *zap.Logger) *Handler {
	return &Handler{ctrl: ctrl, logger: logger}
}

// Register mounts the endpoints on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/movies/search", h.handleSearch)
	mux.HandleFunc("/movies/popular", h.handlePopular)
	mux.HandleFunc("/movies/genre", h.handleGenre)
	mux.HandleFunc("/movies/mood", h.handleMood)
	mux.HandleFunc("/movies/", h.handleDetails)
}

func pageOf(req *http.Request) int {
	page, err := strconv.Atoi(req.FormValue("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (h *Handler) handleSearch(w http.ResponseWriter, req *http.Request) {
	query := req.FormValue("query")
	if query == "" {
		httputil.RespondError(w, http.StatusBadRequest, "query is required")
		return
	}
	page, err := h.ctrl.SearchMovies(req.Context(), query, req.FormValue("language"))
	if err != nil {
		h.respondGatewayError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, page)
}

func (h *Handler) handlePopular(w http.ResponseWriter, req *http.Request) {
	page, err := h.ctrl.GetPopularMovies(req.Context(), pageOf(req), req.FormValue("language"))
	if err != nil {
		h.respondGatewayError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, page)
}

func (h *Handler) handleGenre(w http.ResponseWriter, req *http.Request) {
	genreID, err := strconv.Atoi(req.FormValue("genreId"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "genreId must be an integer")
		return
	}
	page, err := h.ctrl.GetMoviesByGenre(req.Context(), genreID, pageOf(req), req.FormValue("language"))
	if err != nil {
		h.respondGatewayError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, page)
}

func (h *Handler) handleMood(w http.ResponseWriter, req *http.Request) {
	page, err := h.ctrl.GetMoviesByMood(req.Context(), req.FormValue("mood"), pageOf(req))
	if err != nil {
		h.respondGatewayError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, page)
}

func (h *Handler) handleDetails(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(strings.TrimPrefix(req.URL.Path, "/movies/"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "movie id must be an integer")
		return
	}
	detail, err := h.ctrl.GetMovieDetails(req.Context(), id)
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "movie not found")
			return
		}
		h.respondGatewayError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, detail)
}

func (h *Handler) respondGatewayError(w http.ResponseWriter, err error) {
	if errors.Is(err, tmdbgateway.ErrUnknownMood) {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("Movie metadata request failed", zap.Error(err))
	httputil.RespondError(w, http.StatusBadGateway, "movie metadata service unavailable")
}
