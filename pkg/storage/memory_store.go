package storage

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps data in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) Put(name string, data []byte) (Handle, error) {
	if name == "" {
		return Handle{}, ErrEmptyName
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	id := uuid.NewString()
	s.mu.Lock()
	s.items[id] = buf
	s.mu.Unlock()

	return Handle{ID: id, Name: name, Size: len(buf)}, nil
}

func (s *MemoryStore) Open(h Handle) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.items[h.ID]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", h.Name, ErrNotFound)
	}
	return data, nil
}

func (s *MemoryStore) Release(h Handle) error {
	if h.IsZero() {
		return nil
	}
	s.mu.Lock()
	delete(s.items, h.ID)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
