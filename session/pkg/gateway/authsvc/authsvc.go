// Package authsvc is an HTTP gateway to the auth service. It resolves the
// service through the registry on every call and fans auth-state changes
// out to subscribers, so session containers can react to sign-ins and
// sign-outs they did not initiate themselves.
package authsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/pkg/discovery"
	"github.com/vaibhavisno-one/movierating/session/pkg/model"
)

const serviceName = "auth"

// Gateway is an HTTP gateway to the auth service.
type Gateway struct {
	registry discovery.Registry
	client   *http.Client
	logger   *zap.Logger

	mu   sync.Mutex
	subs []func(model.AuthEvent, *model.Session)
}

// New creates an auth service gateway.
func New(registry discovery.Registry, logger *zap.Logger) *Gateway {
	return &Gateway{registry: registry, client: http.DefaultClient, logger: logger}
}

// OnAuthChange registers a callback invoked on every auth-state change the
// gateway observes.
func (g *Gateway) OnAuthChange(fn func(model.AuthEvent, *model.Session)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subs = append(g.subs, fn)
}

func (g *Gateway) notify(event model.AuthEvent, session *model.Session) {
	g.mu.Lock()
	subs := make([]func(model.AuthEvent, *model.Session), len(g.subs))
	copy(subs, g.subs)
	g.mu.Unlock()
	for _, fn := range subs {
		fn(event, session)
	}
}

func (g *Gateway) baseURL(ctx context.Context) (string, error) {
	addrs, err := g.registry.ServiceAddresses(ctx, serviceName)
	if err != nil {
		return "", err
	}
	return "http://" + addrs[rand.Intn(len(addrs))], nil
}

// do sends a JSON request and decodes a JSON response into out (when out is
// non-nil). Non-2xx responses become errors carrying the backend's message.
func (g *Gateway) do(ctx context.Context, method, path, token string, body, out any) error {
	base, err := g.baseURL(ctx)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, base+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		msg := fmt.Sprintf("auth service responded with %s", resp.Status)
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
			msg = e.Error
		}
		// 4xx means the backend refused the request; everything else is
		// a service failure.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return &model.RejectedError{Reason: msg}
		}
		return errors.New(msg)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges credentials for a session.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	var session model.Session
	if err := g.do(ctx, http.MethodPost, "/token", "", credentials{email, password}, &session); err != nil {
		return nil, err
	}
	g.notify(model.AuthEventSignedIn, &session)
	return &session, nil
}

// SignUp registers an account and returns its first session.
func (g *Gateway) SignUp(ctx context.Context, email, password string) (*model.Session, error) {
	var session model.Session
	if err := g.do(ctx, http.MethodPost, "/signup", "", credentials{email, password}, &session); err != nil {
		return nil, err
	}
	g.notify(model.AuthEventSignedIn, &session)
	return &session, nil
}

// SignOut invalidates the session behind the token.
func (g *Gateway) SignOut(ctx context.Context, token string) error {
	if err := g.do(ctx, http.MethodPost, "/signout", token, nil, nil); err != nil {
		return err
	}
	g.notify(model.AuthEventSignedOut, nil)
	return nil
}

// ResetPassword starts a password reset for the email.
func (g *Gateway) ResetPassword(ctx context.Context, email string) error {
	return g.do(ctx, http.MethodPost, "/reset", "",
		struct {
			Email string `json:"email"`
		}{email}, nil)
}

// UpdatePassword changes the password of the token's user.
func (g *Gateway) UpdatePassword(ctx context.Context, token, newPassword string) error {
	return g.do(ctx, http.MethodPost, "/password", token,
		struct {
			NewPassword string `json:"newPassword"`
		}{newPassword}, nil)
}

// UpdateUsername changes the profile username and returns the refreshed
// session.
func (g *Gateway) UpdateUsername(ctx context.Context, token, username string) (*model.Session, error) {
	var session model.Session
	err := g.do(ctx, http.MethodPost, "/profile", token,
		struct {
			Username string `json:"username"`
		}{username}, &session)
	if err != nil {
		return nil, err
	}
	g.notify(model.AuthEventTokenRefreshed, &session)
	return &session, nil
}

// CurrentSession validates the token and returns the session behind it.
func (g *Gateway) CurrentSession(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	if err := g.do(ctx, http.MethodGet, "/session", token, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
