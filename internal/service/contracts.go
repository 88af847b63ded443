package service

import (
	"context"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-deck-bot/internal/repository"
)

type QuestionRepository interface {
	Load(ctx context.Context) repository.LoadResult
	Categories() []entities.Category
	LoadCategory(ctx context.Context, category string) []entities.Question
	Search(query string) []entities.Question
}

type ResultRepository interface {
	Save(ctx context.Context, r *entities.QuizResult) error
	ListByUser(ctx context.Context, userKey string, limit int) ([]entities.QuizResult, error)
}

type SessionStore interface {
	Swap(key string, s *Session) (prev *Session, hadPrev bool)
	Get(key string) (*Session, bool)
	Take(key string) (*Session, bool)
}

type AccessStore interface {
	Grant(key string)
	Revoke(key string)
	Granted(key string) bool
}
