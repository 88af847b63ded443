package repository

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
)

var ErrNoValidQuestions = errors.New("source contains no valid questions")

// LoadResult reports how a load went. Err is informational: the repository
// always ends up with a usable question set.
type LoadResult struct {
	Source     string     // source that was fetched
	Questions  int        // number of questions now available
	Rejected   []RowError // rows dropped by the parser
	FromSample bool       // the built-in sample set is in use
	Err        error      // fetch or parse problem that triggered the fallback
}

// SourceOptions locate the question files.
type SourceOptions struct {
	Source        string // main CSV, e.g. "questions.csv"
	PerCategory   bool   // load categories from CategoriesDir on selection
	CategoriesDir string // e.g. "categories"
}

// QuestionRepository provides access to the loaded questions.
type QuestionRepository struct {
	fetcher Fetcher
	parser  *Parser
	logger  *zap.Logger
	opts    SourceOptions

	group singleflight.Group

	mu        sync.RWMutex
	questions []entities.Question
}

// NewQuestionRepository creates a QuestionRepository. It holds no questions until Load is called.
func NewQuestionRepository(fetcher Fetcher, parser *Parser, logger *zap.Logger, opts SourceOptions) *QuestionRepository {
	return &QuestionRepository{
		fetcher: fetcher,
		parser:  parser,
		logger:  logger,
		opts:    opts,
	}
}

// Load fetches and parses the main source, replacing the current question set.
// On a fetch failure or an empty result the sample questions are used instead.
// Concurrent calls share one fetch.
func (r *QuestionRepository) Load(ctx context.Context) LoadResult {
	v, _, _ := r.group.Do("load:"+r.opts.Source, func() (any, error) {
		questions, res := r.fetchAndParse(ctx, r.opts.Source)
		if len(questions) == 0 {
			questions = SampleQuestions()
			res.FromSample = true
			r.logger.Warn("using sample questions",
				zap.String("source", r.opts.Source),
				zap.Error(res.Err),
			)
		}

		res.Questions = len(questions)

		r.mu.Lock()
		r.questions = questions
		r.mu.Unlock()

		r.logger.Info("questions loaded",
			zap.String("source", r.opts.Source),
			zap.Int("questions", res.Questions),
			zap.Int("rejected", len(res.Rejected)),
			zap.Bool("from_sample", res.FromSample),
		)

		return res, nil
	})

	return v.(LoadResult)
}

func (r *QuestionRepository) fetchAndParse(ctx context.Context, name string) ([]entities.Question, LoadResult) {
	res := LoadResult{Source: name}

	text, err := r.fetcher.Fetch(ctx, name)
	if err != nil {
		res.Err = fmt.Errorf("fetch %s: %w", name, err)
		return nil, res
	}

	parsed := r.parser.Parse(text)
	res.Rejected = parsed.Rejected
	if len(parsed.Questions) == 0 {
		res.Err = fmt.Errorf("parse %s: %w", name, ErrNoValidQuestions)
	}

	return parsed.Questions, res
}

// All returns copies of every loaded question in source order.
func (r *QuestionRepository) All() []entities.Question {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneQuestions(r.questions, func(*entities.Question) bool { return true })
}

// Categories returns category names with question counts in first-appearance order.
func (r *QuestionRepository) Categories() []entities.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var categories []entities.Category
	index := make(map[string]int)
	for i := range r.questions {
		name := r.questions[i].Category
		pos, ok := index[name]
		if !ok {
			index[name] = len(categories)
			categories = append(categories, entities.Category{Name: name, Count: 1})
			continue
		}
		categories[pos].Count++
	}

	return categories
}

// ByCategory returns copies of the questions in category, in source order.
func (r *QuestionRepository) ByCategory(category string) []entities.Question {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneQuestions(r.questions, func(q *entities.Question) bool { return q.Category == category })
}

// Search returns copies of the questions whose text, options or explanation contain query.
func (r *QuestionRepository) Search(query string) []entities.Question {
	lower := strings.ToLower(strings.TrimSpace(query))
	if lower == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneQuestions(r.questions, func(q *entities.Question) bool { return q.Matches(lower) })
}

// LoadCategory returns the questions of one category. With per-category
// sources enabled it fetches CategoriesDir/<slug>.csv first and falls back
// to the main set when that file is missing or empty.
func (r *QuestionRepository) LoadCategory(ctx context.Context, category string) []entities.Question {
	if !r.opts.PerCategory {
		return r.ByCategory(category)
	}

	name := path.Join(r.opts.CategoriesDir, Slug(category)+".csv")
	v, _, _ := r.group.Do("category:"+name, func() (any, error) {
		questions, res := r.fetchAndParse(ctx, name)
		if res.Err != nil {
			r.logger.Warn("category source unavailable, using main set",
				zap.String("category", category),
				zap.String("source", name),
				zap.Error(res.Err),
			)
		}
		return questions, nil
	})

	fetched := v.([]entities.Question)
	questions := cloneQuestions(fetched, func(q *entities.Question) bool { return q.Category == category })
	if len(questions) == 0 {
		return r.ByCategory(category)
	}

	return questions
}

// Slug converts a category name to a file name: lower case, spaces to dashes,
// everything except letters, digits, dashes and underscores dropped.
func Slug(category string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(strings.TrimSpace(category)) {
		switch {
		case unicode.IsLetter(c), unicode.IsDigit(c), c == '-', c == '_':
			b.WriteRune(c)
		case unicode.IsSpace(c):
			b.WriteRune('-')
		}
	}
	return b.String()
}

func cloneQuestions(src []entities.Question, keep func(*entities.Question) bool) []entities.Question {
	out := make([]entities.Question, 0, len(src))
	for i := range src {
		if keep(&src[i]) {
			out = append(out, src[i].Clone())
		}
	}
	return out
}
