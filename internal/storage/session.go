package storage

import (
	"context"
	"errors"
	"sync"
	"time"
	"yara_assistant/internal/core"
	"yara_assistant/src/logger"
)

const (
	// SessionTTL is the default idle lifetime of a session (40 minutes)
	SessionTTL = 40 * time.Minute

	// DefaultSessionID names the shared session used when a client sends no id
	DefaultSessionID = "default"
)

// ErrSessionNotFound is returned for unknown or expired sessions
var ErrSessionNotFound = errors.New("session not found")

// SessionManager owns the session registry
type SessionManager interface {
	GetOrCreate(ctx context.Context, sessionID string) *core.Session
	Get(ctx context.Context, sessionID string) (*core.Session, error)
	Delete(ctx context.Context, sessionID string) error
	Reset(ctx context.Context, sessionID string) error
	Sweep(now time.Time) int
	Len() int
}

// MemorySessionManager is an in-process registry with idle-TTL eviction
type MemorySessionManager struct {
	mu         sync.RWMutex
	sessions   map[string]*core.Session
	ttl        time.Duration
	maxHistory int
	now        func() time.Time
}

// NewMemorySessionManager creates a registry whose sessions expire after ttl
// of inactivity and keep at most maxHistory turns.
func NewMemorySessionManager(ttl time.Duration, maxHistory int) *MemorySessionManager {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &MemorySessionManager{
		sessions:   make(map[string]*core.Session),
		ttl:        ttl,
		maxHistory: maxHistory,
		now:        time.Now,
	}
}

func normalizeID(sessionID string) string {
	if sessionID == "" {
		return DefaultSessionID
	}
	return sessionID
}

// GetOrCreate returns the live session for sessionID, creating it lazily.
// An expired session is replaced by a fresh one.
func (m *MemorySessionManager) GetOrCreate(ctx context.Context, sessionID string) *core.Session {
	id := normalizeID(sessionID)

	m.mu.RLock()
	session, exists := m.sessions[id]
	m.mu.RUnlock()
	if exists && !m.expired(session) {
		return session
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if session, exists := m.sessions[id]; exists && !m.expired(session) {
		return session
	}

	session = core.NewSession(id, m.maxHistory)
	m.sessions[id] = session
	logger.Debug().Str("session_id", id).Msg("🆕 Session created")
	return session
}

// Get retrieves a live session
func (m *MemorySessionManager) Get(ctx context.Context, sessionID string) (*core.Session, error) {
	id := normalizeID(sessionID)

	m.mu.RLock()
	session, exists := m.sessions[id]
	m.mu.RUnlock()
	if !exists {
		return nil, ErrSessionNotFound
	}

	if m.expired(session) {
		m.mu.Lock()
		if current, ok := m.sessions[id]; ok && current == session {
			delete(m.sessions, id)
		}
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session
func (m *MemorySessionManager) Delete(ctx context.Context, sessionID string) error {
	id := normalizeID(sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[id]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Reset clears the memory and history of a live session
func (m *MemorySessionManager) Reset(ctx context.Context, sessionID string) error {
	session, err := m.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	session.Reset()
	logger.Debug().Str("session_id", session.ID).Msg("🧹 Session reset")
	return nil
}

// Sweep evicts every session idle longer than the TTL and returns how many were removed
func (m *MemorySessionManager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, session := range m.sessions {
		if now.Sub(session.LastActive()) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		logger.Info().Int("removed", removed).Int("active", len(m.sessions)).Msg("🧹 Expired sessions evicted")
	}
	return removed
}

// Len returns the number of registered sessions
func (m *MemorySessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run sweeps expired sessions every interval until ctx is done
func (m *MemorySessionManager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(m.now())
		}
	}
}

func (m *MemorySessionManager) expired(session *core.Session) bool {
	return m.now().Sub(session.LastActive()) > m.ttl
}
