package authsvc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vaibhavisno-one/movierating/session/pkg/model"
)

type staticRegistry struct {
	addr string
}

func (r staticRegistry) Register(ctx context.Context, instanceID, serviceName, hostPort string) error {
	return nil
}

func (r staticRegistry) Deregister(ctx context.Context, instanceID, serviceName string) error {
	return nil
}

func (r staticRegistry) ServiceAddresses(ctx context.Context, serviceName string) ([]string, error) {
	return []string{r.addr}, nil
}

func (r staticRegistry) ReportHealthyState(instanceID, serviceName string) error {
	return nil
}

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(staticRegistry{addr: strings.TrimPrefix(srv.URL, "http://")}, zap.NewNop())
}

func TestSignInRefusedByBackend(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
	})

	_, err := g.SignIn(context.Background(), "a@b.com", "wrong")
	var rejected *model.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "invalid credentials", rejected.Reason)
}

func TestSignInBackendFailure(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := g.SignIn(context.Background(), "a@b.com", "secret")
	require.Error(t, err)
	var rejected *model.RejectedError
	assert.False(t, errors.As(err, &rejected),
		"a backend failure must not read as a refused sign-in")
}
