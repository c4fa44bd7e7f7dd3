// ABOUTME: Tests for the HTTP authentication middleware
// ABOUTME: Covers header parsing, rejection bodies and sender propagation

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/multiadmin/internal/host"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		token   string
		wantErr string
	}{
		{"", "", "missing authorization header"},
		{"Basic abc", "", "invalid authorization header format"},
		{"Bearer ", "", "empty token"},
		{"Bearer abc.def.ghi", "abc.def.ghi", ""},
	}

	for _, tt := range tests {
		token, errMsg := extractBearerToken(tt.header)
		assert.Equal(t, tt.token, token, "header %q", tt.header)
		assert.Equal(t, tt.wantErr, errMsg, "header %q", tt.header)
	}
}

func TestMiddleware(t *testing.T) {
	v := newTestVerifier(t)
	valid, err := v.Generate("alice", time.Hour)
	require.NoError(t, err)

	v.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := v.Generate("alice", time.Hour)
	require.NoError(t, err)
	v.now = time.Now

	var gotSender host.HumanAddr
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sender, ok := SenderFromContext(r.Context())
		require.True(t, ok)
		gotSender = sender
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Middleware(v)(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{"valid", "Bearer " + valid, http.StatusNoContent, ""},
		{"missing", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized, "invalid authorization header format"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "invalid token"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSender = ""
			req := httptest.NewRequest(http.MethodPost, "/v1/execute", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError == "" {
				assert.Equal(t, host.HumanAddr("alice"), gotSender)
				return
			}

			assert.Empty(t, gotSender, "next handler must not run")
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestSenderFromContext_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := SenderFromContext(req.Context())
	assert.False(t, ok)

	_, ok = SenderFromContext(WithSender(req.Context(), ""))
	assert.False(t, ok)
}
