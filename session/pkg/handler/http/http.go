// Package http exposes the session store over JSON/HTTP.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/internal/httputil"
	"github.com/vaibhavisno-one/movierating/session/pkg/store"
	"github.com/vaibhavisno-one/movierating/session/pkg/model"
)

// Handler serves the /session endpoints.
type Handler struct {
	store  store.Store
	logger *zap.Logger
}

// New creates a session HTTP handler.
func New(s store.Store, logger *zap.Logger) *Handler {
	return &Handler{store: s, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type stateResponse struct {
	Identity any    `json:"identity"`
	Loading  bool   `json:"loading"`
	Error    string `json:"error,omitempty"`
}

func (h *Handler) respondState(w http.ResponseWriter, status int) {
	s := h.store.Snapshot()
	resp := stateResponse{Loading: s.Loading, Error: s.Err}
	if s.Identity != nil {
		resp.Identity = s.Identity
	}
	httputil.RespondJSON(w, status, resp)
}

// HandleState serves the current session state.
func (h *Handler) HandleState(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	h.respondState(w, http.StatusOK)
}

// HandleSignIn signs the user in with email and password.
func (h *Handler) HandleSignIn(w http.ResponseWriter, req *http.Request) {
	h.handleCredentials(w, req, h.store.SignIn)
}

// HandleSignUp registers a new account.
func (h *Handler) HandleSignUp(w http.ResponseWriter, req *http.Request) {
	h.handleCredentials(w, req, h.store.SignUp)
}

func (h *Handler) handleCredentials(w http.ResponseWriter, req *http.Request,
	op func(ctx context.Context, email, password string) error) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body credentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := op(req.Context(), body.Email, body.Password); err != nil {
		// Only a backend refusal is an authentication failure; a
		// storage or transport error is a degradation.
		var rejected *model.RejectedError
		if errors.As(err, &rejected) {
			h.respondState(w, http.StatusUnauthorized)
			return
		}
		h.logger.Error("Session operation failed", zap.Error(err))
		h.respondState(w, http.StatusInternalServerError)
		return
	}
	h.respondState(w, http.StatusOK)
}

// HandleSignOut ends the session.
func (h *Handler) HandleSignOut(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := h.store.SignOut(req.Context()); err != nil {
		h.respondState(w, http.StatusInternalServerError)
		return
	}
	h.respondState(w, http.StatusOK)
}

// HandleUsername updates the active identity's username.
func (h *Handler) HandleUsername(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.store.UpdateUsername(req.Context(), body.Username); err != nil {
		h.respondState(w, http.StatusInternalServerError)
		return
	}
	h.respondState(w, http.StatusOK)
}
