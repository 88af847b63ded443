package storage

import (
	"context"
	"sync"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
)

// ResultStorage keeps quiz results in memory. It is the default result store
// when no database is configured; results are lost on restart.
type ResultStorage struct {
	mu      sync.RWMutex
	results map[string][]entities.QuizResult
}

func NewResultStorage() *ResultStorage {
	return &ResultStorage{
		results: make(map[string][]entities.QuizResult),
	}
}

// Save appends a result to the owner's history.
func (s *ResultStorage) Save(_ context.Context, r *entities.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[r.UserKey] = append(s.results[r.UserKey], *r)
	return nil
}

// ListByUser returns the owner's results, newest first. limit <= 0 means all.
func (s *ResultStorage) ListByUser(_ context.Context, userKey string, limit int) ([]entities.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.results[userKey]
	n := len(history)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]entities.QuizResult, 0, n)
	for i := len(history) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, history[i])
	}
	return out, nil
}
