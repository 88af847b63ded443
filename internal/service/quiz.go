package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-deck-bot/internal/repository"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyQuery      = errors.New("search query is empty")
)

// QuizService owns the question set and every running session.
type QuizService struct {
	questions QuestionRepository
	results   ResultRepository
	sessions  SessionStore
	rnd       Rand
	logger    *zap.Logger
	now       func() time.Time
}

func NewQuizService(
	questions QuestionRepository,
	results ResultRepository,
	sessions SessionStore,
	rnd Rand,
	logger *zap.Logger,
) *QuizService {
	if rnd == nil {
		rnd = DefaultRand
	}

	return &QuizService{
		questions: questions,
		results:   results,
		sessions:  sessions,
		rnd:       rnd,
		logger:    logger,
		now:       time.Now,
	}
}

// Reload refetches the question set. Running sessions keep their own copies.
func (s *QuizService) Reload(ctx context.Context) repository.LoadResult {
	return s.questions.Load(ctx)
}

func (s *QuizService) Categories() []entities.Category {
	return s.questions.Categories()
}

// StartCategory starts a new session over one category under key, replacing
// the session previously stored there. An empty key stores the session under
// its own ID.
func (s *QuizService) StartCategory(ctx context.Context, key, category string) *Session {
	questions := s.questions.LoadCategory(ctx, category)
	return s.start(ctx, key, SelectCategory(questions, category, s.rnd))
}

// StartSearch starts a new session over the questions matching query.
func (s *QuizService) StartSearch(ctx context.Context, key, query string) (*Session, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	questions := s.questions.Search(query)
	return s.start(ctx, key, NewSession(SearchCategory(query), questions, s.rnd)), nil
}

// SearchCategory is the category label of a search session.
func SearchCategory(query string) string {
	return "search: " + query
}

func (s *QuizService) start(ctx context.Context, key string, session *Session) *Session {
	if key == "" {
		key = session.ID()
	}

	if prev, ok := s.sessions.Swap(key, session); ok {
		prev.Close()
		s.record(ctx, key, prev)
	}

	s.logger.Debug("session started",
		zap.String("key", key),
		zap.String("session_id", session.ID()),
		zap.String("category", session.Category()),
		zap.Int("questions", session.Len()),
	)

	return session
}

// Session returns the session stored under key.
func (s *QuizService) Session(key string) (*Session, error) {
	session, ok := s.sessions.Get(key)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Next advances the session under key and records the result when the last
// question has been passed.
func (s *QuizService) Next(ctx context.Context, key string) (entities.NavResult, error) {
	session, err := s.Session(key)
	if err != nil {
		return entities.NavResult{}, err
	}

	res := session.Next()
	if res.Completed {
		s.record(ctx, key, session)
	}
	return res, nil
}

// ScheduleAdvance arms the session's auto-advance. fn receives the outcome
// after a completed run has been recorded.
func (s *QuizService) ScheduleAdvance(ctx context.Context, key string, delay time.Duration, fn func(entities.NavResult)) error {
	session, err := s.Session(key)
	if err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	session.ScheduleAdvance(delay, func(res entities.NavResult) {
		if res.Completed {
			s.record(ctx, key, session)
		}
		if fn != nil {
			fn(res)
		}
	})
	return nil
}

// Finish ends the session under key and records its result.
func (s *QuizService) Finish(ctx context.Context, key string) (entities.Stats, error) {
	session, ok := s.sessions.Take(key)
	if !ok {
		return entities.Stats{}, ErrSessionNotFound
	}

	session.Close()
	s.record(ctx, key, session)

	return session.Stats(), nil
}

// record saves the session result once. A failed save is only logged.
func (s *QuizService) record(ctx context.Context, key string, session *Session) {
	result, ok := session.claimResult(key, s.now())
	if !ok {
		return
	}

	if err := s.results.Save(ctx, &result); err != nil {
		s.logger.Error("failed to save quiz result",
			zap.String("key", key),
			zap.String("session_id", session.ID()),
			zap.Error(fmt.Errorf("save result: %w", err)),
		)
		return
	}

	s.logger.Info("quiz result saved",
		zap.String("key", key),
		zap.String("category", result.Category),
		zap.Int("correct", result.Correct),
		zap.Int("attempted", result.Attempted),
	)
}
