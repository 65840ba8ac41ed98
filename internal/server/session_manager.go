package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jorin/whenfree/internal/instrumentation"
)

const (
	// defaultAccount is the account a session maps to before it is bound.
	defaultAccount = "default"

	sessionCleanupInterval = 10 * time.Minute
)

// ErrNoAuthorizationHeader is returned when a request carries no
// Authorization header to derive a session from.
var ErrNoAuthorizationHeader = errors.New("no authorization header provided")

// sessionInfo tracks which calendar account a session is bound to and when
// it was last seen, for expiry.
type sessionInfo struct {
	account    string
	lastAccess time.Time
}

// SessionIDManager maps Bearer tokens to calendar accounts so several
// accounts can share one HTTP server instance. Session IDs are stable
// hashes of the token; expired sessions are swept in the background.
type SessionIDManager struct {
	sessions       map[string]*sessionInfo
	mu             sync.RWMutex
	cleanupTicker  *time.Ticker
	cleanupDone    chan bool
	sessionTimeout time.Duration
	logger         *slog.Logger
	metrics        *instrumentation.Metrics
}

// NewSessionIDManager creates a session manager with a 24 hour timeout.
func NewSessionIDManager() *SessionIDManager {
	return NewSessionIDManagerWithLogger(24*time.Hour, slog.Default())
}

// NewSessionIDManagerWithTimeout creates a session manager with a custom timeout.
func NewSessionIDManagerWithTimeout(timeout time.Duration) *SessionIDManager {
	return NewSessionIDManagerWithLogger(timeout, slog.Default())
}

// NewSessionIDManagerWithLogger creates a session manager with a custom
// timeout and logger. Stop must be called to release the cleanup goroutine.
func NewSessionIDManagerWithLogger(timeout time.Duration, logger *slog.Logger) *SessionIDManager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &SessionIDManager{
		sessions:       make(map[string]*sessionInfo),
		cleanupTicker:  time.NewTicker(sessionCleanupInterval),
		cleanupDone:    make(chan bool),
		sessionTimeout: timeout,
		logger:         logger,
	}

	go m.cleanupExpiredSessions()

	return m
}

// ResolveSessionID derives the session ID for an HTTP request from its
// Authorization header. The same Bearer token always yields the same ID.
func (m *SessionIDManager) ResolveSessionID(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoAuthorizationHeader
	}

	return m.generateSessionID(authHeader), nil
}

// GetAccountForSession returns the account bound to a session, refreshing
// its last-access time. Unknown sessions resolve to the default account.
func (m *SessionIDManager) GetAccountForSession(sessionID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if info, ok := m.sessions[sessionID]; ok {
		info.lastAccess = time.Now()
		return info.account
	}
	return defaultAccount
}

// SetAccountForSession binds an account to a session ID, creating the
// session when it is new.
func (m *SessionIDManager) SetAccountForSession(sessionID, account string) {
	m.mu.Lock()
	_, existed := m.sessions[sessionID]
	m.sessions[sessionID] = &sessionInfo{
		account:    account,
		lastAccess: time.Now(),
	}
	m.mu.Unlock()

	if !existed && m.metrics != nil {
		m.metrics.IncrementActiveSessions(context.Background())
	}
}

// SetMetrics attaches a metrics recorder for the active-session gauge.
// Call before the manager starts serving requests.
func (m *SessionIDManager) SetMetrics(metrics *instrumentation.Metrics) {
	m.metrics = metrics
}

// generateSessionID hashes a token into a stable session ID. The raw token
// is never stored.
func (m *SessionIDManager) generateSessionID(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// RemoveSession drops a session.
func (m *SessionIDManager) RemoveSession(sessionID string) {
	m.mu.Lock()
	_, existed := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if existed && m.metrics != nil {
		m.metrics.DecrementActiveSessions(context.Background())
	}
}

// ListSessions returns all active session IDs.
func (m *SessionIDManager) ListSessions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]string, 0, len(m.sessions))
	for sessionID := range m.sessions {
		sessions = append(sessions, sessionID)
	}
	return sessions
}

func (m *SessionIDManager) cleanupExpiredSessions() {
	for {
		select {
		case <-m.cleanupTicker.C:
			m.mu.Lock()
			now := time.Now()
			expiredCount := 0
			for sessionID, info := range m.sessions {
				if now.Sub(info.lastAccess) > m.sessionTimeout {
					delete(m.sessions, sessionID)
					expiredCount++
				}
			}
			m.mu.Unlock()
			if expiredCount > 0 {
				if m.metrics != nil {
					for i := 0; i < expiredCount; i++ {
						m.metrics.DecrementActiveSessions(context.Background())
					}
				}
				m.logger.Info("Cleaned up expired sessions", "count", expiredCount)
			}
		case <-m.cleanupDone:
			return
		}
	}
}

// Stop halts the background session cleanup.
func (m *SessionIDManager) Stop() {
	if m.cleanupTicker != nil {
		m.cleanupTicker.Stop()
	}
	if m.cleanupDone != nil {
		close(m.cleanupDone)
	}
}
