package engine

import (
	"sync"

	"assessment-service/internal/models"
)

// SessionStore keeps live sessions addressable by id. The engine itself
// holds no session state; callers pick the store implementation.
type SessionStore interface {
	Get(id string) (*models.QuizSession, bool)
	Put(session *models.QuizSession)
	Delete(id string)
}

// MemoryStore is a map arena keyed by session id, safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.QuizSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.QuizSession)}
}

func (s *MemoryStore) Get(id string) (*models.QuizSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *MemoryStore) Put(session *models.QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
