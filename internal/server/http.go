package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// HTTPServer serves the MCP protocol over streamable HTTP alongside the
// health check endpoints. Sessions are tracked per Bearer token so several
// accounts can share one server instance.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	sc         *ServerContext
	health     *HealthChecker
	sessions   *SessionIDManager
	httpServer *http.Server
	logger     *slog.Logger
}

// NewHTTPServer wires the MCP server to its HTTP surface. A nil logger
// defaults to slog.Default().
func NewHTTPServer(mcpSrv *mcpserver.MCPServer, sc *ServerContext, logger *slog.Logger) *HTTPServer {
	if logger == nil {
		logger = slog.Default()
	}
	sessions := NewSessionIDManagerWithLogger(24*time.Hour, logger)
	sessions.SetMetrics(sc.Metrics())
	return &HTTPServer{
		mcpServer: mcpSrv,
		sc:        sc,
		health:    NewHealthChecker(sc),
		sessions:  sessions,
		logger:    logger,
	}
}

// HealthChecker exposes the health checker so callers can flip readiness.
func (s *HTTPServer) HealthChecker() *HealthChecker {
	return s.health
}

// Start begins serving on addr. It blocks until the server stops.
func (s *HTTPServer) Start(addr string) error {
	mux := http.NewServeMux()
	s.health.RegisterHealthEndpoints(mux)

	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath("/mcp"),
	)
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		streamable.ServeHTTP(w, r)
	})
	mux.Handle("/mcp", s.recordRequests(s.trackSessions(mcpHandler)))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server and the session cleanup loop.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.sessions.Stop()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// trackSessions records session activity for requests carrying an
// Authorization header. Requests without one pass through untracked.
func (s *HTTPServer) trackSessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := s.sessions.ResolveSessionID(r); err == nil {
			account := s.sessions.GetAccountForSession(id)
			s.sessions.SetAccountForSession(id, account)
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// recordRequests emits HTTP request metrics when instrumentation is attached.
func (s *HTTPServer) recordRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics := s.sc.Metrics()
		if metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
