package auth

import "sync"

// MemoryStore is an in-process TokenStore, lost on exit
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tokens: make(map[string]string),
	}
}

func (m *MemoryStore) SaveToken(key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[key] = token
	return nil
}

func (m *MemoryStore) LoadToken(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, exists := m.tokens[key]
	if !exists {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

func (m *MemoryStore) DeleteToken(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, key)
	return nil
}
