package httpapi

import (
	"context"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-deck-bot/internal/repository"
	"github.com/aliskhannn/quiz-deck-bot/internal/service"
)

type QuizService interface {
	Reload(ctx context.Context) repository.LoadResult
	Categories() []entities.Category
	StartCategory(ctx context.Context, key, category string) *service.Session
	StartSearch(ctx context.Context, key, query string) (*service.Session, error)
	Session(key string) (*service.Session, error)
	Next(ctx context.Context, key string) (entities.NavResult, error)
	Finish(ctx context.Context, key string) (entities.Stats, error)
}

type StatsService interface {
	Summary(ctx context.Context, userKey string) (*service.Summary, error)
}

type AccessService interface {
	Check(password string) bool
}
