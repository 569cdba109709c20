// Package local implements the session store against the key-value record
// store, with the identity derived from the email and no password check.
// It mirrors the behavior of the client-side sign-in this service grew out
// of: the identity lives under a single fixed key and survives restarts.
package local

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/internal/kvstore"
	"github.com/vaibhavisno-one/movierating/session/pkg/store"
	"github.com/vaibhavisno-one/movierating/session/pkg/model"
)

const identityKey = "user"

// Store is the local-identity session store.
type Store struct {
	mu      sync.Mutex
	state   store.State
	records *kvstore.Records
	logger  *zap.Logger
}

// New creates a local session store over the given key-value store. The
// state starts with no identity and loading set, until RestoreSession runs.
func New(kv kvstore.Store, logger *zap.Logger) *Store {
	return &Store{
		state:   store.State{Loading: true},
		records: kvstore.NewRecords(kv, logger),
		logger:  logger,
	}
}

// SignIn constructs an identity from the email without checking the
// password. A username stored from a previous session is preserved only
// when the stored identity's email matches.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Err = ""

	var username *string
	var stored model.Identity
	if found, _ := s.records.Get(ctx, identityKey, &stored); found && stored.Email == email {
		username = stored.Username
	}
	identity := model.Identity{ID: email, Email: email, Username: username}
	if err := s.records.Put(ctx, identityKey, identity); err != nil {
		s.state.Err = fmt.Sprintf("Failed to sign in: %v", err)
		s.state.Loading = false
		return err
	}
	s.state.Identity = &identity
	s.state.Loading = false
	return nil
}

// SignUp constructs a fresh identity from the email and persists it.
func (s *Store) SignUp(ctx context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Err = ""

	identity := model.Identity{ID: email, Email: email}
	if err := s.records.Put(ctx, identityKey, identity); err != nil {
		s.state.Err = fmt.Sprintf("Failed to sign up: %v", err)
		s.state.Loading = false
		return err
	}
	s.state.Identity = &identity
	s.state.Loading = false
	return nil
}

// SignOut clears the persisted identity and the in-memory one.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Err = ""

	if err := s.records.Delete(ctx, identityKey); err != nil {
		s.state.Err = fmt.Sprintf("Failed to sign out: %v", err)
		s.state.Loading = false
		return err
	}
	s.state.Identity = nil
	s.state.Loading = false
	return nil
}

// RestoreSession loads the persisted identity, if any. It always settles
// with loading cleared and never fails: an unreadable record is reported
// through the state's Err and behaves as no session.
func (s *Store) RestoreSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Err = ""

	var identity model.Identity
	found, err := s.records.Get(ctx, identityKey, &identity)
	switch {
	case err != nil:
		s.state.Identity = nil
		s.state.Err = fmt.Sprintf("Failed to load session: %v", err)
	case found:
		s.state.Identity = &identity
	default:
		s.state.Identity = nil
	}
	s.state.Loading = false
	return nil
}

// UpdateUsername merges the new username into the active identity and
// re-persists it. Without an active identity this is a no-op. When
// persistence fails the in-memory update is kept and the failure is
// reported through the state's Err.
func (s *Store) UpdateUsername(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Identity == nil {
		return nil
	}
	updated := *s.state.Identity
	updated.Username = &username
	s.state.Identity = &updated
	if err := s.records.Put(ctx, identityKey, updated); err != nil {
		s.state.Err = "Failed to update username"
		return err
	}
	s.state.Err = ""
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() store.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
