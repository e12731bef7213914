// Package session tracks per-browsing-session theme contexts so rapid
// theme switches from one visitor resolve with last-writer-wins semantics.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/escuadron-404/sitio/internal/theme"
)

// CookieName carries the opaque session identifier.
const CookieName = "sitio-session"

const defaultTTL = 12 * time.Hour

type entry struct {
	ctx      *theme.Context
	lastSeen time.Time
}

// Manager hands out one theme.Context per session id and evicts idle
// sessions lazily on access.
type Manager struct {
	mu      sync.Mutex
	reg     *theme.Registry
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

// NewManager creates a session manager over the given theme registry.
func NewManager(reg *theme.Registry) *Manager {
	return &Manager{
		reg:     reg,
		entries: make(map[string]*entry),
		ttl:     defaultTTL,
		now:     time.Now,
	}
}

// NewID returns a fresh opaque session id.
func NewID() string { return uuid.NewString() }

// SessionCookie builds the session identifier cookie.
func SessionCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Context returns the theme context for a session, creating one seeded
// with the given theme state on first sight.
func (m *Manager) Context(sessionID string, seedID theme.ID, seed *theme.Bundle, persist theme.Persister) *theme.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	e, ok := m.entries[sessionID]
	if !ok {
		e = &entry{ctx: theme.NewContext(m.reg, seedID, seed, persist)}
		m.entries[sessionID] = e
	}
	e.lastSeen = m.now()
	return e.ctx
}

// Drop tears down and removes a session's context.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[sessionID]; ok {
		e.ctx.Teardown()
		delete(m.entries, sessionID)
	}
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Manager) pruneLocked() {
	cutoff := m.now().Add(-m.ttl)
	for id, e := range m.entries {
		if e.lastSeen.Before(cutoff) {
			e.ctx.Teardown()
			delete(m.entries, id)
		}
	}
}
