// ABOUTME: Tests for the multiadmin CLI commands against an in-process host
// ABOUTME: Runs the cobra tree with --host pointing at an httptest server

package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/multiadmin/internal/auth"
	"github.com/2389/multiadmin/internal/host"
	"github.com/2389/multiadmin/internal/server"
	"github.com/2389/multiadmin/internal/store"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	hostURL, token = "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func startHost(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	verifier, err := auth.NewJWTVerifier([]byte("cli-test-secret-0123456789abcdef"))
	require.NoError(t, err)
	h, err := server.New(server.Config{
		Store:    store.NewMemoryStore(),
		Api:      host.NewMockApi(),
		Verifier: verifier,
		Contract: "treasury",
	})
	require.NoError(t, err)
	require.NoError(t, h.Bootstrap(context.Background(), []host.HumanAddr{"alice"}))

	srv := httptest.NewServer(h.Handler())
	t.Cleanup(srv.Close)

	token, err := verifier.Generate("alice", time.Hour)
	require.NoError(t, err)
	return srv, token
}

func TestAdminsAddThenList(t *testing.T) {
	srv, aliceToken := startHost(t)

	out, err := runCLI(t, "admins", "add", "bob", "carol", "--host", srv.URL, "--token", aliceToken)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ added bob")
	assert.Contains(t, out, "✓ added carol")

	out, err = runCLI(t, "admins", "list", "--host", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "  1  alice\n  2  bob\n  3  carol\n", out)
}

func TestAdminsAdd_RequiresToken(t *testing.T) {
	srv, _ := startHost(t)

	_, err := runCLI(t, "admins", "add", "bob", "--host", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a token is required")
}

func TestAdminsAdd_RequiresArgs(t *testing.T) {
	_, err := runCLI(t, "admins", "add")
	assert.Error(t, err)
}

func TestAdminsList_Empty(t *testing.T) {
	var buf bytes.Buffer
	printAdmins(&buf, nil)
	assert.Equal(t, "No admins.\n", buf.String())
}
