package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-deck-bot/internal/repository"
	"github.com/aliskhannn/quiz-deck-bot/internal/service"
	"github.com/aliskhannn/quiz-deck-bot/internal/storage"
)

// Bot is the part of *tgbotapi.BotAPI the handler uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type QuizService interface {
	Reload(ctx context.Context) repository.LoadResult
	Categories() []entities.Category
	StartCategory(ctx context.Context, key, category string) *service.Session
	StartSearch(ctx context.Context, key, query string) (*service.Session, error)
	Session(key string) (*service.Session, error)
	Next(ctx context.Context, key string) (entities.NavResult, error)
	ScheduleAdvance(ctx context.Context, key string, delay time.Duration, fn func(entities.NavResult)) error
	Finish(ctx context.Context, key string) (entities.Stats, error)
}

type StatsService interface {
	Summary(ctx context.Context, userKey string) (*service.Summary, error)
}

type AccessService interface {
	Enabled() bool
	Login(key, password string) error
	Logout(key string)
	Authorized(key string) bool
}

type MessageStorage interface {
	Store(msg storage.QuestionMessage)
	Get(chatID int64) (storage.QuestionMessage, bool)
	Delete(chatID int64)
}
