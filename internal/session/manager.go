package session

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Info contains summary information about a session.
type Info struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
	UseCases     int       `json:"use_cases"`
}

// Manager holds all live sessions in memory. Sessions are cheap; the capacity
// limit exists to bound a misbehaving client, not to budget memory precisely.
type Manager struct {
	maxSessions     int
	defaultUseCases int

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager. maxSessions <= 0 means unlimited.
func NewManager(maxSessions, defaultUseCases int) *Manager {
	return &Manager{
		maxSessions:     maxSessions,
		defaultUseCases: defaultUseCases,
		sessions:        make(map[string]*Session),
	}
}

// Create allocates a new session with a ULID identifier.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, ErrSessionLimit
	}

	id := ulid.Make().String()
	s := New(id, m.defaultUseCases)
	m.sessions[id] = s

	slog.Info("session created",
		"component", "session",
		"session_id", id,
		"use_cases", m.defaultUseCases,
	)
	return s, nil
}

// Get returns the session for id and touches its last-accessed time.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.Touch()
	return s, nil
}

// Delete removes the session for id.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	slog.Info("session deleted", "component", "session", "session_id", id)
	return nil
}

// List returns summaries of all sessions ordered by id.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]Info, 0, len(m.sessions))
	for _, s := range m.sessions {
		infos = append(infos, Info{
			ID:           s.ID(),
			CreatedAt:    s.CreatedAt(),
			LastAccessed: s.LastAccessed(),
			UseCases:     len(s.UseCases()),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ExpireIdle removes sessions whose last access is before cutoff and returns
// how many were removed.
func (m *Manager) ExpireIdle(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired int
	for id, s := range m.sessions {
		if s.LastAccessed().Before(cutoff) {
			delete(m.sessions, id)
			expired++
			slog.Info("session expired",
				"component", "session",
				"session_id", id,
				"last_accessed", s.LastAccessed().Format(time.RFC3339),
			)
		}
	}
	return expired
}
