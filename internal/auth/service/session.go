package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ============================================================
// Session Manager
// ============================================================

type session struct {
	userID    string
	expiresAt time.Time
}

// SessionManager хранит bearer-токены в памяти. ttl <= 0 — без срока.
type SessionManager struct {
	mu     sync.Mutex
	tokens map[string]session
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		tokens: make(map[string]session),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *SessionManager) Issue(userID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := uuid.NewString()
	s := session{userID: userID}
	if m.ttl > 0 {
		s.expiresAt = m.now().Add(m.ttl)
	}
	m.tokens[token] = s
	return token
}

func (m *SessionManager) Resolve(token string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.tokens[token]
	if !ok {
		return "", false
	}
	if !s.expiresAt.IsZero() && m.now().After(s.expiresAt) {
		delete(m.tokens, token)
		return "", false
	}
	return s.userID, true
}

// Revoke удаляет токен; повторный вызов безвреден.
func (m *SessionManager) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tokens, token)
}
