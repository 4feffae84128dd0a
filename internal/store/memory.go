package store

import (
	"sync"
	"time"

	"gameday-assistant/internal/appstate"
	"gameday-assistant/internal/assistant"
)

// Session is the per-client pairing of app state and its assistant.
type Session struct {
	ID        string
	App       *appstate.Store
	Assistant *assistant.Assistant
	CreatedAt time.Time
	LastSeen  time.Time
}

// Factory builds the collaborators for a new session.
type Factory func(id string) (*appstate.Store, *assistant.Assistant)

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  Factory
	idleTTL  time.Duration
	now      func() time.Time
}

// NewMemoryStore keeps sessions until they have been idle for idleTTL. A zero
// TTL keeps them forever.
func NewMemoryStore(factory Factory, idleTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		factory:  factory,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// GetOrCreate returns the session for id, creating it on first use.
func (m *MemoryStore) GetOrCreate(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if s, ok := m.sessions[id]; ok && !m.expiredLocked(s, now) {
		s.LastSeen = now
		return s, false
	}
	app, asst := m.factory(id)
	s := &Session{ID: id, App: app, Assistant: asst, CreatedAt: now, LastSeen: now}
	m.sessions[id] = s
	return s, true
}

// Get returns a live session without creating one.
func (m *MemoryStore) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	now := m.now()
	if m.expiredLocked(s, now) {
		delete(m.sessions, id)
		return nil, false
	}
	s.LastSeen = now
	return s, true
}

func (m *MemoryStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops idle sessions and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for id, s := range m.sessions {
		if m.expiredLocked(s, now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *MemoryStore) expiredLocked(s *Session, now time.Time) bool {
	return m.idleTTL > 0 && now.Sub(s.LastSeen) > m.idleTTL
}
