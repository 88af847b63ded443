package entities

import (
	"math"
	"time"
)

// Score holds the counters of one session. Both only ever grow.
type Score struct {
	Correct   int `json:"correct"`
	Attempted int `json:"attempted"`
}

// Record counts one submission.
func (s *Score) Record(isCorrect bool) {
	s.Attempted++
	if isCorrect {
		s.Correct++
	}
}

// Stats are derived from a Score and never stored on their own.
type Stats struct {
	Correct   int `json:"correct"`
	Attempted int `json:"attempted"`
	Incorrect int `json:"incorrect"`
	Accuracy  int `json:"accuracy"` // rounded percentage
}

// Stats derives the statistics for the score.
func (s Score) Stats() Stats {
	return Stats{
		Correct:   s.Correct,
		Attempted: s.Attempted,
		Incorrect: s.Attempted - s.Correct,
		Accuracy:  Accuracy(s.Correct, s.Attempted),
	}
}

// Accuracy returns round(correct/attempted*100), or 0 when nothing was attempted.
func Accuracy(correct, attempted int) int {
	if attempted <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(attempted) * 100))
}

// Progress is the position of the displayed question within a session.
type Progress struct {
	Index   int     `json:"index"` // 0-based
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// NewProgress computes (index+1)/total*100; an empty session is at 0%.
func NewProgress(index, total int) Progress {
	p := Progress{Index: index, Total: total}
	if total > 0 {
		p.Percent = float64(index+1) / float64(total) * 100
	}
	return p
}

// AnswerResult is everything a UI needs to render feedback for a submission.
type AnswerResult struct {
	QuestionID    string `json:"question_id"`
	Selected      int    `json:"selected"`
	CorrectIndex  int    `json:"correct_index"`
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
	Image         string `json:"image,omitempty"`
	Stats         Stats  `json:"stats"`
}

// NavResult is the outcome of moving to the next or previous question.
type NavResult struct {
	Index     int  `json:"index"`
	Moved     bool `json:"moved"`
	Completed bool `json:"completed"` // next was requested on the last question
}

// SessionView is a snapshot of a session for rendering.
type SessionView struct {
	ID         string        `json:"id"`
	Category   string        `json:"category"`
	Question   *QuestionView `json:"question,omitempty"` // nil when the session has no questions
	Answered   bool          `json:"answered"`
	Generation uint64        `json:"generation"`
	Progress   Progress      `json:"progress"`
	Stats      Stats         `json:"stats"`
}

// QuizResult is a finished (or abandoned) session stored in the result history.
type QuizResult struct {
	ID         string    `json:"id"`          // unique result ID
	UserKey    string    `json:"user_key"`    // owner: "tg:<chat id>", an HTTP client key or an HTTP session ID
	Category   string    `json:"category"`    // category name or "search: <query>"
	Correct    int       `json:"correct"`     // correct answers
	Attempted  int       `json:"attempted"`   // submitted answers
	Total      int       `json:"total"`       // questions in the session
	StartedAt  time.Time `json:"started_at"`  // session start
	FinishedAt time.Time `json:"finished_at"` // time the result was recorded
}

// Accuracy returns the rounded accuracy of the result.
func (r QuizResult) Accuracy() int {
	return Accuracy(r.Correct, r.Attempted)
}

// Better reports whether r beats other: higher accuracy first, then more correct answers.
func (r QuizResult) Better(other QuizResult) bool {
	if r.Accuracy() != other.Accuracy() {
		return r.Accuracy() > other.Accuracy()
	}
	return r.Correct > other.Correct
}
