package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/quiz-deck-bot/internal/config"
	"github.com/aliskhannn/quiz-deck-bot/internal/delivery/httpapi"
	"github.com/aliskhannn/quiz-deck-bot/internal/delivery/telegram"
	"github.com/aliskhannn/quiz-deck-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/quiz-deck-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/quiz-deck-bot/internal/infra/sqlite"
	"github.com/aliskhannn/quiz-deck-bot/internal/logger"
	"github.com/aliskhannn/quiz-deck-bot/internal/repository"
	"github.com/aliskhannn/quiz-deck-bot/internal/service"
	"github.com/aliskhannn/quiz-deck-bot/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Questions.
	fetcher, err := newFetcher(cfg.Questions)
	if err != nil {
		lg.Fatal("failed to create question fetcher", zap.Error(err))
	}

	parser := repository.NewParser(lg, repository.ParserOptions{
		ImagePrefix:   cfg.Questions.ImagePrefix,
		StrictCorrect: cfg.Questions.StrictCorrect,
	})
	questionRepo := repository.NewQuestionRepository(fetcher, parser, lg, repository.SourceOptions{
		Source:        cfg.Questions.Source,
		PerCategory:   cfg.Questions.PerCategory,
		CategoriesDir: cfg.Questions.CategoriesDir,
	})

	if res := questionRepo.Load(ctx); res.FromSample {
		lg.Warn("question source could not be used, serving sample questions",
			zap.String("source", res.Source),
			zap.Error(res.Err),
		)
	}

	// Results.
	results, closeResults, err := newResultStore(ctx, cfg)
	if err != nil {
		lg.Fatal("failed to open result store", zap.String("driver", cfg.Results.Driver), zap.Error(err))
	}
	defer closeResults()

	// Services.
	quizService := service.NewQuizService(
		questionRepo,
		results,
		storage.NewSessionStorage[*service.Session](),
		service.DefaultRand,
		lg,
	)
	statsService := service.NewStatsService(results)
	accessService := service.NewAccessService(cfg.AccessPassword, storage.NewAccessStorage())

	g, gctx := errgroup.WithContext(ctx)

	if cfg.TelegramAPIToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
		if err != nil {
			lg.Fatal("failed to create telegram bot", zap.Error(err))
		}
		bot.Debug = cfg.Env == "local"

		if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands()...)); err != nil {
			lg.Warn("failed to set bot commands", zap.Error(err))
		}
		lg.Info("authorized on telegram", zap.String("username", bot.Self.UserName))

		handler := telegram.NewHandler(
			bot,
			lg,
			quizService,
			statsService,
			accessService,
			storage.NewMessageStorage(),
			telegram.Options{
				AutoAdvanceDelay: cfg.Quiz.AutoAdvanceDelay,
				ImagesDir:        cfg.Questions.ImagesDir,
			},
		)
		g.Go(func() error { return handler.Run(gctx) })
	}

	if cfg.HTTP.Addr != "" {
		api := httpapi.NewHandler(quizService, statsService, accessService, lg)
		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           api.Routes(cfg.HTTP.AllowedOrigins),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			lg.Info("http api listening", zap.String("addr", cfg.HTTP.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		lg.Error("service stopped with error", zap.Error(err))
		return
	}
	lg.Info("shutdown complete")
}

func newFetcher(cfg config.Questions) (repository.Fetcher, error) {
	if cfg.BaseURL != "" {
		f, err := repository.NewHTTPFetcher(cfg.BaseURL, nil)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return repository.NewFileFetcher("."), nil
}

// newResultStore opens the configured result history backend. The returned
// func releases it.
func newResultStore(ctx context.Context, cfg *config.Config) (service.ResultRepository, func(), error) {
	switch cfg.Results.Driver {
	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, err
		}

		return pgrepo.NewResultStore(pool, postgres.NewTransactor(pool)), pool.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Results.SQLitePath)
		if err != nil {
			return nil, nil, err
		}

		return sqlite.NewResultRepository(db), func() { _ = db.Close() }, nil

	default:
		return storage.NewResultStorage(), func() {}, nil
	}
}
