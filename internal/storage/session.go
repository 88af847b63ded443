package storage

import "sync"

// SessionStorage provides in-memory storage for running sessions by key.
type SessionStorage[T any] struct {
	mu       sync.RWMutex
	sessions map[string]T
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage[T any]() *SessionStorage[T] {
	return &SessionStorage[T]{
		sessions: make(map[string]T),
	}
}

// Swap stores v under key and returns the value it replaced.
func (s *SessionStorage[T]) Swap(key string, v T) (prev T, hadPrev bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev = s.sessions[key]
	s.sessions[key] = v

	return prev, hadPrev
}

// Get retrieves the value stored under key.
func (s *SessionStorage[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.sessions[key]
	return v, ok
}

// Take removes and returns the value stored under key.
func (s *SessionStorage[T]) Take(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.sessions[key]
	delete(s.sessions, key)
	return v, ok
}

// Len returns the number of stored values.
func (s *SessionStorage[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
