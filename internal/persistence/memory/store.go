// Package memory implements an in-memory blob store for tests and
// ephemeral sessions.
package memory

import "sync"

// Store is a thread-safe in-memory BlobStore.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Get returns the blob for key, with found=false for an absent key.
func (s *Store) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set stores the blob for key.
func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.blobs[key] = stored
	return nil
}

// Delete removes the key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// Keys returns the stored keys, for test assertions.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		keys = append(keys, k)
	}
	return keys
}
