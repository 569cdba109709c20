// Package remote implements the session store against the hosted auth
// backend. Every operation delegates over the wire; the container only
// reflects the backend's answers and the auth-state notifications it
// pushes.
package remote

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/session/pkg/store"
	"github.com/vaibhavisno-one/movierating/session/pkg/model"
)

// AuthGateway is the consumed surface of the auth backend.
type AuthGateway interface {
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignUp(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, token, newPassword string) error
	UpdateUsername(ctx context.Context, token, username string) (*model.Session, error)
	CurrentSession(ctx context.Context, token string) (*model.Session, error)
}

// Store is the remote-backed session store.
type Store struct {
	mu      sync.Mutex
	state   store.State
	token   string
	gateway AuthGateway
	logger  *zap.Logger
}

// New creates a remote session store over the given gateway.
func New(gateway AuthGateway, logger *zap.Logger) *Store {
	return &Store{
		state:   store.State{Loading: true},
		gateway: gateway,
		logger:  logger,
	}
}

// begin flags the operation as in flight. The flag is advisory: the mutex
// is not held across the network call, so a second operation issued while
// one is pending still runs and last-write-wins.
func (s *Store) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Err = ""
}

func (s *Store) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = err.Error()
}

func (s *Store) apply(session *model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == nil {
		s.state.Identity = nil
		s.token = ""
		return
	}
	identity := session.Identity
	s.state.Identity = &identity
	s.token = session.Token
}

// SignIn authenticates against the backend.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	s.begin()
	defer s.finish()
	session, err := s.gateway.SignIn(ctx, email, password)
	if err != nil {
		s.fail(err)
		return err
	}
	s.apply(session)
	return nil
}

// SignUp registers a new account with the backend.
func (s *Store) SignUp(ctx context.Context, email, password string) error {
	s.begin()
	defer s.finish()
	session, err := s.gateway.SignUp(ctx, email, password)
	if err != nil {
		s.fail(err)
		return err
	}
	s.apply(session)
	return nil
}

// SignOut invalidates the session at the backend and clears the identity.
func (s *Store) SignOut(ctx context.Context) error {
	s.begin()
	defer s.finish()
	if err := s.gateway.SignOut(ctx, s.currentToken()); err != nil {
		s.fail(err)
		return err
	}
	s.apply(nil)
	return nil
}

// ResetPassword asks the backend to start a password reset for the email.
func (s *Store) ResetPassword(ctx context.Context, email string) error {
	s.begin()
	defer s.finish()
	if err := s.gateway.ResetPassword(ctx, email); err != nil {
		s.fail(err)
		return err
	}
	return nil
}

// UpdatePassword changes the password of the authenticated user.
func (s *Store) UpdatePassword(ctx context.Context, newPassword string) error {
	s.begin()
	defer s.finish()
	if err := s.gateway.UpdatePassword(ctx, s.currentToken(), newPassword); err != nil {
		s.fail(err)
		return err
	}
	return nil
}

// UpdateUsername changes the profile username at the backend and applies
// the refreshed session. Without an active identity this is a no-op.
func (s *Store) UpdateUsername(ctx context.Context, username string) error {
	if s.Snapshot().Identity == nil {
		return nil
	}
	s.begin()
	defer s.finish()
	session, err := s.gateway.UpdateUsername(ctx, s.currentToken(), username)
	if err != nil {
		s.fail(err)
		return err
	}
	s.apply(session)
	return nil
}

// RestoreSession fetches the current session for the held token, if any.
// It never fails: a rejected or missing session just means no identity.
func (s *Store) RestoreSession(ctx context.Context) error {
	s.begin()
	defer s.finish()
	token := s.currentToken()
	if token == "" {
		s.apply(nil)
		return nil
	}
	session, err := s.gateway.CurrentSession(ctx, token)
	if err != nil {
		s.logger.Warn("Session restore rejected by the auth backend", zap.Error(err))
		s.apply(nil)
		return nil
	}
	s.apply(session)
	return nil
}

// SetIdentity reflects a backend-initiated auth-state change, such as a
// token refresh or a sign-out from another client. A nil session clears
// the identity.
func (s *Store) SetIdentity(event model.AuthEvent, session *model.Session) {
	s.logger.Info("Auth state changed", zap.String("event", string(event)))
	s.apply(session)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() store.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) currentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}
