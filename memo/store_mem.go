package memo

import (
	"fmt"
	"sync"
)

type memStore struct {
	mu      sync.Mutex
	records map[string][]byte
	closed  bool
}

// newMemStore returns a transient in-memory store.
func newMemStore() store {
	return &memStore{records: make(map[string][]byte)}
}

func (s *memStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("store closed")
	}
	v, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	// Callers may hold onto the result across mutations.
	return append([]byte(nil), v...), nil
}

func (s *memStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store closed")
	}
	s.records[key] = append([]byte(nil), value...)
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store closed")
	}
	delete(s.records, key)
	return nil
}

func (s *memStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}
