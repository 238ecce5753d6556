package store

import (
	"context"
	"sync"
)

// MemoryStore é a implementação em memória do SessionStore. É usada nos
// testes e quando o servidor sobe sem REDIS_ADDR configurado.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]GameSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]GameSession),
	}
}

// Put insere ou substitui uma sessão.
func (s *MemoryStore) Put(sess GameSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.SessionID] = sess
}

func (s *MemoryStore) GetSession(_ context.Context, sessionID string) (*GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	// Devolve uma cópia para o chamador não mutar o mapa por engano.
	out := sess
	return &out, nil
}
