package storage

import "sync"

// AccessStorage remembers which keys passed the access gate.
type AccessStorage struct {
	mu      sync.RWMutex
	granted map[string]struct{}
}

func NewAccessStorage() *AccessStorage {
	return &AccessStorage{
		granted: make(map[string]struct{}),
	}
}

func (s *AccessStorage) Grant(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.granted[key] = struct{}{}
}

func (s *AccessStorage) Revoke(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.granted, key)
}

func (s *AccessStorage) Granted(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.granted[key]
	return ok
}
