package storage

import (
	"sync"

	"github.com/smokvina/Slavenski-Ljubavni-Pri-atelj/internal/model"
)

// MemoryStore holds canonical session state. Sessions are cloned on every
// boundary crossing, in and out, so callers can read or mutate what they
// hold without racing one another; UpdateSession is the only way a change
// becomes visible.
type MemoryStore struct {
	sessions map[string]*model.Session
	mu       sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*model.Session),
	}
}

func (m *MemoryStore) Init() error {
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) CreateSession(session *model.Session) error {
	if session == nil || session.ID == "" {
		return ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *MemoryStore) GetSession(sessionID string) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	return session.Clone(), nil
}

func (m *MemoryStore) UpdateSession(session *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.ID]; !exists {
		return ErrSessionNotFound
	}

	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *MemoryStore) DeleteSession(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}

	delete(m.sessions, sessionID)
	return nil
}

func (m *MemoryStore) ListSessions() ([]*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*model.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session.Clone())
	}

	return sessions, nil
}
