package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/session/pkg/store"
	"github.com/vaibhavisno-one/movierating/session/pkg/model"
)

type fakeStore struct {
	signInErr error
	state     store.State
}

func (f *fakeStore) SignIn(ctx context.Context, email, password string) error { return f.signInErr }
func (f *fakeStore) SignUp(ctx context.Context, email, password string) error { return f.signInErr }
func (f *fakeStore) SignOut(ctx context.Context) error                        { return nil }
func (f *fakeStore) RestoreSession(ctx context.Context) error                 { return nil }
func (f *fakeStore) UpdateUsername(ctx context.Context, username string) error {
	return nil
}
func (f *fakeStore) Snapshot() store.State { return f.state }

func postSignIn(t *testing.T, s store.Store) *httptest.ResponseRecorder {
	t.Helper()
	h := New(s, zap.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/session/signin",
		strings.NewReader(`{"email":"a@b.com","password":"secret"}`))
	rec := httptest.NewRecorder()
	h.HandleSignIn(rec, req)
	return rec
}

func TestSignInRejectedByBackend(t *testing.T) {
	rec := postSignIn(t, &fakeStore{
		signInErr: &model.RejectedError{Reason: "invalid credentials"},
		state:     store.State{Err: "invalid credentials"},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignInStorageFailureIsNotUnauthorized(t *testing.T) {
	rec := postSignIn(t, &fakeStore{
		signInErr: assert.AnError,
		state:     store.State{Err: "Failed to sign in: assert.AnError"},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSignInSuccess(t *testing.T) {
	rec := postSignIn(t, &fakeStore{
		state: store.State{Identity: &model.Identity{ID: "a@b.com", Email: "a@b.com"}},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"a@b.com"`)
}
