package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
)

var (
	ErrNoQuestions     = errors.New("session has no questions")
	ErrInvalidOption   = errors.New("option index out of range")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrStaleQuestion   = errors.New("question is no longer displayed")
)

// Session is the state of one quiz run over a category or a search result.
//
// Every change of what is displayed (navigation or a shuffle) bumps the
// generation. An answer is accepted once per generation, and a scheduled
// auto-advance only fires if the generation it was armed for is still current.
type Session struct {
	mu sync.Mutex

	id        string
	owner     string
	category  string
	startedAt time.Time
	rnd       Rand

	questions []entities.Question
	index     int
	score     entities.Score

	generation uint64
	answered   bool
	timer      *time.Timer

	closed   bool
	recorded bool
}

// SelectCategory starts a session over the questions of one category.
// Source order is kept before the initial shuffle. A category without
// questions yields an empty session, not an error.
func SelectCategory(all []entities.Question, category string, r Rand) *Session {
	var filtered []entities.Question
	for i := range all {
		if all[i].Category == category {
			filtered = append(filtered, all[i])
		}
	}

	return NewSession(category, filtered, r)
}

// NewSession starts a session over the given questions. The questions are
// copied, so the caller's slice is never reordered or reshuffled.
func NewSession(category string, questions []entities.Question, r Rand) *Session {
	if r == nil {
		r = DefaultRand
	}

	owned := make([]entities.Question, len(questions))
	for i := range questions {
		owned[i] = questions[i].Clone()
	}

	s := &Session{
		id:        uuid.NewString(),
		category:  category,
		startedAt: time.Now(),
		rnd:       r,
		questions: owned,
	}
	ShuffleQuestionsAndAnswers(s.rnd, s.questions)

	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Category() string { return s.category }

// Owner returns the key results are recorded under, empty when not set.
func (s *Session) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

// SetOwner sets the key results are recorded under instead of the storage key.
func (s *Session) SetOwner(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = owner
}

func (s *Session) StartedAt() time.Time { return s.startedAt }

// Len returns the number of questions in the session.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

// Current returns the displayed question. ok is false for an empty session.
func (s *Session) Current() (view entities.QuestionView, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.questions) == 0 {
		return entities.QuestionView{}, false
	}
	return s.questions[s.index].View(), true
}

// Submit evaluates the selected option of the displayed question.
func (s *Session) Submit(selected int) (entities.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.submit(selected)
}

// SubmitAt is Submit for a UI that may send answers for a question it no
// longer shows: the answer only counts if generation is still current.
func (s *Session) SubmitAt(generation uint64, selected int) (entities.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return entities.AnswerResult{}, ErrStaleQuestion
	}
	return s.submit(selected)
}

func (s *Session) submit(selected int) (entities.AnswerResult, error) {
	if len(s.questions) == 0 {
		return entities.AnswerResult{}, ErrNoQuestions
	}

	q := &s.questions[s.index]
	if selected < 0 || selected >= len(q.CurrentOptions) {
		return entities.AnswerResult{}, ErrInvalidOption
	}
	if s.answered {
		return entities.AnswerResult{}, ErrAlreadyAnswered
	}

	isCorrect := selected == q.CurrentCorrect
	s.score.Record(isCorrect)
	s.answered = true

	return entities.AnswerResult{
		QuestionID:    q.ID,
		Selected:      selected,
		CorrectIndex:  q.CurrentCorrect,
		IsCorrect:     isCorrect,
		CorrectAnswer: q.CorrectAnswer(),
		Explanation:   q.Explanation,
		Image:         q.Image,
		Stats:         s.score.Stats(),
	}, nil
}

// Next moves to the following question. On the last question the index stays
// put and Completed is set.
func (s *Session) Next() entities.NavResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.next()
}

func (s *Session) next() entities.NavResult {
	if len(s.questions) == 0 {
		return entities.NavResult{}
	}

	if s.index >= len(s.questions)-1 {
		s.stopTimer()
		return entities.NavResult{Index: s.index, Completed: true}
	}

	s.index++
	s.redisplay()
	return entities.NavResult{Index: s.index, Moved: true}
}

// Previous moves to the preceding question; at the first question it does nothing.
func (s *Session) Previous() entities.NavResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == 0 {
		return entities.NavResult{Index: 0}
	}

	s.index--
	s.redisplay()
	return entities.NavResult{Index: s.index, Moved: true}
}

// ShuffleAll reshuffles the question order and every question's answers,
// and returns to the first question.
func (s *Session) ShuffleAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ShuffleQuestionsAndAnswers(s.rnd, s.questions)
	s.index = 0
	s.redisplay()
}

// ShuffleCurrentAnswers reshuffles the answers of the displayed question only.
// An answered question stays answered.
func (s *Session) ShuffleCurrentAnswers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.questions) == 0 {
		return
	}

	ShuffleAnswers(s.rnd, &s.questions[s.index])

	answered := s.answered
	s.redisplay()
	s.answered = answered
}

// ScheduleAdvance calls Next after delay and passes the outcome to fn, unless
// the display changes first. Scheduling again replaces the pending advance.
func (s *Session) ScheduleAdvance(delay time.Duration, fn func(entities.NavResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.stopTimer()

	generation := s.generation
	s.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.closed || s.generation != generation {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		res := s.next()
		s.mu.Unlock()

		if fn != nil {
			fn(res)
		}
	})
}

// CancelAdvance drops a pending auto-advance, if any.
func (s *Session) CancelAdvance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimer()
}

// Close cancels pending work. A closed session ignores new schedules.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimer()
	s.closed = true
}

func (s *Session) Progress() entities.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entities.NewProgress(s.index, len(s.questions))
}

func (s *Session) Stats() entities.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score.Stats()
}

func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// View returns a consistent snapshot of everything a UI renders.
func (s *Session) View() entities.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := entities.SessionView{
		ID:         s.id,
		Category:   s.category,
		Answered:   s.answered,
		Generation: s.generation,
		Progress:   entities.NewProgress(s.index, len(s.questions)),
		Stats:      s.score.Stats(),
	}
	if len(s.questions) > 0 {
		q := s.questions[s.index].View()
		v.Question = &q
	}

	return v
}

// claimResult returns the session outcome the first time it is called after
// at least one answer; later calls report false. The owner, when set, replaces userKey.
func (s *Session) claimResult(userKey string, now time.Time) (entities.QuizResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recorded || s.score.Attempted == 0 {
		return entities.QuizResult{}, false
	}
	s.recorded = true

	if s.owner != "" {
		userKey = s.owner
	}

	return entities.QuizResult{
		ID:         uuid.NewString(),
		UserKey:    userKey,
		Category:   s.category,
		Correct:    s.score.Correct,
		Attempted:  s.score.Attempted,
		Total:      len(s.questions),
		StartedAt:  s.startedAt,
		FinishedAt: now,
	}, true
}

// redisplay marks a new display: pending advances are void and the answer lock is released.
func (s *Session) redisplay() {
	s.stopTimer()
	s.generation++
	s.answered = false
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
