// Package store defines the session state container contract shared by the
// local-identity and remote-backed implementations.
package store

import (
	"context"

	"github.com/vaibhavisno-one/movierating/session/pkg/model"
)

// State is the externally visible session state. Loading starts true and
// settles once RestoreSession completes; Err carries the last operation's
// displayable failure message, empty when the operation succeeded.
type State struct {
	Identity *model.Identity
	Loading  bool
	Err      string
}

// Store is a session state container. Implementations serialize access to
// their state internally, but Loading is advisory only: an operation issued
// while another is in flight still runs and last-write-wins.
type Store interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	RestoreSession(ctx context.Context) error
	UpdateUsername(ctx context.Context, username string) error
	Snapshot() State
}
