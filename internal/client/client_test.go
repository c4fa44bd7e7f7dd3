// ABOUTME: Tests for the multiadmin HTTP client against a real host handler
// ABOUTME: Covers list/add round trips and error mapping

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/multiadmin/internal/admin"
	"github.com/2389/multiadmin/internal/auth"
	"github.com/2389/multiadmin/internal/host"
	"github.com/2389/multiadmin/internal/server"
	"github.com/2389/multiadmin/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *server.Host, *auth.JWTVerifier) {
	t.Helper()

	verifier, err := auth.NewJWTVerifier([]byte("client-test-secret-0123456789abc"))
	require.NoError(t, err)

	h, err := server.New(server.Config{
		Store:    store.NewMemoryStore(),
		Api:      host.NewMockApi(),
		Verifier: verifier,
		Contract: "treasury",
	})
	require.NoError(t, err)

	srv := httptest.NewServer(h.Handler())
	t.Cleanup(srv.Close)
	return srv, h, verifier
}

func tokenFor(t *testing.T, v *auth.JWTVerifier, sender host.HumanAddr) string {
	t.Helper()
	token, err := v.Generate(sender, time.Hour)
	require.NoError(t, err)
	return token
}

func TestClient_ListAndAdd(t *testing.T) {
	srv, h, verifier := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, h.Bootstrap(ctx, []host.HumanAddr{"alice"}))

	c := New(srv.URL+"/", WithToken(tokenFor(t, verifier, "alice")))

	admins, err := c.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, []host.HumanAddr{"alice"}, admins)

	resp, err := c.AddAdmins(ctx, []host.HumanAddr{"bob"})
	require.NoError(t, err)
	assert.Empty(t, resp.Messages)
	assert.Nil(t, resp.Data)

	admins, err = c.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, []host.HumanAddr{"alice", "bob"}, admins)
}

func TestClient_Errors(t *testing.T) {
	srv, h, verifier := newTestServer(t)
	ctx := context.Background()

	_, err := New(srv.URL).ListAdmins(ctx)
	assert.ErrorIs(t, err, admin.ErrNotFound)

	require.NoError(t, h.Bootstrap(ctx, []host.HumanAddr{"alice"}))

	_, err = New(srv.URL, WithToken(tokenFor(t, verifier, "mallory"))).AddAdmins(ctx, []host.HumanAddr{"mallory"})
	assert.ErrorIs(t, err, admin.ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "unauthorized", apiErr.Message)
	assert.NotEmpty(t, apiErr.RequestID)

	_, err = New(srv.URL, WithToken("not-a-token")).AddAdmins(ctx, []host.HumanAddr{"bob"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = New(srv.URL).AddAdmins(ctx, []host.HumanAddr{"bob"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "no token configured")

	_, err = New(srv.URL, WithToken(tokenFor(t, verifier, "alice"))).AddAdmins(ctx, []host.HumanAddr{"x"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL).ListAdmins(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "bad gateway", apiErr.Message)
}
