package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/example/commute-front/internal/models"
)

// memEntry mirrors the durable format: two entries, the token string and the
// profile snapshot as JSON.
type memEntry struct {
	token   string
	user    []byte
	created time.Time
}

// MemoryStore keeps sessions in process memory. Used when REDIS_ADDR is not
// set; sessions do not survive a restart, which is acceptable for local runs.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memEntry)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var u models.User
	if err := json.Unmarshal(e.user, &u); err != nil {
		// Corrupted snapshot: purge both entries, report no session.
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, nil
	}
	return &Session{ID: id, Token: e.token, User: u, CreatedAt: e.created}, nil
}

func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	b, err := json.Marshal(s.User)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = memEntry{token: s.Token, user: b, created: s.CreatedAt}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
