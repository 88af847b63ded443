package service

import (
	"math/rand"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
)

// Rand is the randomness source used by shuffles. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

// DefaultRand uses the package-level math/rand source.
var DefaultRand Rand = globalRand{}

// Shuffle permutes s in place with Fisher-Yates: for i from len-1 down to 1
// it swaps s[i] with s[j], j uniform in [0, i].
func Shuffle[T any](r Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// ShuffleAnswers randomizes the presentation order of q's options.
// It shuffles indices rather than option texts, so the correct slot is found
// by position even when two options share the same text.
func ShuffleAnswers(r Rand, q *entities.Question) {
	perm := make([]int, len(q.OriginalOptions))
	for i := range perm {
		perm[i] = i
	}
	Shuffle(r, perm)
	q.ApplyPermutation(perm)
}

// ShuffleQuestionsAndAnswers shuffles the question order and then, independently,
// the answers of every question.
func ShuffleQuestionsAndAnswers(r Rand, questions []entities.Question) {
	Shuffle(r, questions)
	for i := range questions {
		ShuffleAnswers(r, &questions[i])
	}
}
