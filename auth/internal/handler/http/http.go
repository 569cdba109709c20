// Package http serves the auth service API: account creation, password
// sign-in issuing JWT session tokens, token validation, password reset and
// profile updates.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaibhavisno-one/movierating/auth/internal/repository"
	"github.com/vaibhavisno-one/movierating/auth/pkg/model"
	"github.com/vaibhavisno-one/movierating/internal/httputil"
)

const tokenTTL = 24 * time.Hour

// SecretProvider supplies the HMAC secret used to sign session tokens.
type SecretProvider func() []byte

type userRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// Handler serves the auth service endpoints.
type Handler struct {
	repo           userRepository
	secretProvider SecretProvider
	logger         *zap.Logger
}

// New creates an auth handler.
func New(repo userRepository, secretProvider SecretProvider, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, secretProvider: secretProvider, logger: logger}
}

// Register mounts the endpoints on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/signup", h.handleSignUp)
	mux.HandleFunc("/token", h.handleToken)
	mux.HandleFunc("/validate", h.handleValidate)
	mux.HandleFunc("/session", h.handleSession)
	mux.HandleFunc("/signout", h.handleSignOut)
	mux.HandleFunc("/reset", h.handleReset)
	mux.HandleFunc("/password", h.handlePassword)
	mux.HandleFunc("/profile", h.handleProfile)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token    string         `json:"token"`
	Identity identityResult `json:"identity"`
}

type identityResult struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func identityOf(u *model.User) identityResult {
	return identityResult{ID: u.ID, Email: u.Email, Username: u.Username, AvatarURL: u.AvatarURL}
}

func (h *Handler) handleSignUp(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body credentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !strings.Contains(body.Email, "@") {
		httputil.RespondError(w, http.StatusBadRequest, "a valid email address is required")
		return
	}
	if len(body.Password) < 6 {
		httputil.RespondError(w, http.StatusBadRequest, "password must be at least 6 characters long")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("Failed to hash password", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	user := &model.User{ID: uuid.NewString(), Email: body.Email, PasswordHash: hash}
	if err := h.repo.Create(req.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			httputil.RespondError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("Failed to create user", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.respondSession(w, http.StatusCreated, user)
}

func (h *Handler) handleToken(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body credentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.repo.GetByEmail(req.Context(), body.Email)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(body.Password)) != nil {
		httputil.RespondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	h.respondSession(w, http.StatusOK, user)
}

func (h *Handler) handleValidate(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	userID, err := h.parseToken(body.Token)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"userId": userID})
}

func (h *Handler) handleSession(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, ok := h.authenticate(w, req)
	if !ok {
		return
	}
	h.respondSession(w, http.StatusOK, user)
}

// handleSignOut exists so clients have a uniform call shape; session tokens
// are stateless, so discarding the token is the actual sign-out.
func (h *Handler) handleSignOut(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReset issues a reset token and logs it; mail delivery is outside
// this service.
func (h *Handler) handleReset(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Respond identically for unknown emails so the endpoint does not
	// reveal which addresses are registered.
	if user, err := h.repo.GetByEmail(req.Context(), body.Email); err == nil {
		h.logger.Info("Password reset requested",
			zap.String("userId", user.ID), zap.String("resetToken", uuid.NewString()))
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handlePassword(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, ok := h.authenticate(w, req)
	if !ok {
		return
	}
	var body struct {
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(body.NewPassword) < 6 {
		httputil.RespondError(w, http.StatusBadRequest, "password must be at least 6 characters long")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("Failed to hash password", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	user.PasswordHash = hash
	if err := h.repo.Update(req.Context(), user); err != nil {
		h.logger.Error("Failed to update password", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleProfile(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, ok := h.authenticate(w, req)
	if !ok {
		return
	}
	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user.Username = &body.Username
	if err := h.repo.Update(req.Context(), user); err != nil {
		h.logger.Error("Failed to update profile", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.respondSession(w, http.StatusOK, user)
}

func (h *Handler) respondSession(w http.ResponseWriter, status int, user *model.User) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(h.secretProvider())
	if err != nil {
		h.logger.Error("Failed to sign token", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httputil.RespondJSON(w, status, sessionResponse{Token: signed, Identity: identityOf(user)})
}

// authenticate resolves the Bearer token to a user, writing the error
// response itself when that fails.
func (h *Handler) authenticate(w http.ResponseWriter, req *http.Request) (*model.User, bool) {
	header := req.Header.Get("Authorization")
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return nil, false
	}
	userID, err := h.parseToken(tokenString)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
		return nil, false
	}
	user, err := h.repo.GetByID(req.Context(), userID)
	if err != nil {
		httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
		return nil, false
	}
	return user, true
}

func (h *Handler) parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return h.secretProvider(), nil
		},
	)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}
