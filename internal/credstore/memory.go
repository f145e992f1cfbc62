package credstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryKV is the ephemeral tier: process-local, lost on restart. Sessions
// written here behave like the original session-scoped storage.
type MemoryKV struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{sessions: make(map[uuid.UUID]map[string]string)}
}

func (m *MemoryKV) Set(_ context.Context, sessionID uuid.UUID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kv, ok := m.sessions[sessionID]
	if !ok {
		kv = make(map[string]string)
		m.sessions[sessionID] = kv
	}
	kv[key] = value
	return nil
}

func (m *MemoryKV) Get(_ context.Context, sessionID uuid.UUID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	kv, ok := m.sessions[sessionID]
	if !ok {
		return "", false, nil
	}
	value, ok := kv[key]
	return value, ok, nil
}

func (m *MemoryKV) Delete(_ context.Context, sessionID uuid.UUID, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kv, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(kv, key)
	}
	if len(kv) == 0 {
		delete(m.sessions, sessionID)
	}
	return nil
}
