package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

func TestNewHTTPServer(t *testing.T) {
	ctx := context.Background()
	sc, err := NewServerContext(ctx)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	mcpSrv := mcpserver.NewMCPServer("test", "0.0.1")
	srv := NewHTTPServer(mcpSrv, sc, nil)
	require.NotNil(t, srv)
	assert.NotNil(t, srv.HealthChecker())
}

func TestHTTPServer_TrackSessions(t *testing.T) {
	ctx := context.Background()
	sc, err := NewServerContext(ctx)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	mcpSrv := mcpserver.NewMCPServer("test", "0.0.1")
	srv := NewHTTPServer(mcpSrv, sc, nil)
	defer func() { _ = srv.Shutdown(ctx) }()

	var called bool
	handler := srv.trackSessions(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	// Request with a Bearer token registers a session
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer token-a")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, srv.sessions.ListSessions(), 1)

	// Request without a token passes through untracked
	called = false
	req = httptest.NewRequest(http.MethodPost, "/mcp", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Len(t, srv.sessions.ListSessions(), 1)
}

func TestHTTPServer_ShutdownBeforeStart(t *testing.T) {
	ctx := context.Background()
	sc, err := NewServerContext(ctx)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	mcpSrv := mcpserver.NewMCPServer("test", "0.0.1")
	srv := NewHTTPServer(mcpSrv, sc, nil)

	assert.NoError(t, srv.Shutdown(ctx))
}
