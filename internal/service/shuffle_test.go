package service

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
)

// scriptedRand returns the queued values in order, then falls back to n-1 (no swap).
type scriptedRand struct {
	values []int
	calls  []int
}

func (r *scriptedRand) Intn(n int) int {
	r.calls = append(r.calls, n)
	if len(r.values) == 0 {
		return n - 1
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v
}

// identityRand never swaps, so shuffles keep source order.
type identityRand struct{}

func (identityRand) Intn(n int) int { return n - 1 }

func TestShuffleFisherYatesOrder(t *testing.T) {
	r := &scriptedRand{values: []int{0, 0, 0}}
	s := []string{"a", "b", "c", "d"}

	Shuffle(r, s)

	assert.Equal(t, []int{4, 3, 2}, r.calls, "j is drawn from [0,i] for i = len-1 down to 1")
	// i=3 swaps with 0: d b c a; i=2 swaps with 0: c b d a; i=1 swaps with 0: b c d a.
	assert.Equal(t, []string{"b", "c", "d", "a"}, s)
}

func TestShuffleShortSlices(t *testing.T) {
	r := &scriptedRand{}

	var empty []int
	Shuffle(r, empty)
	assert.Empty(t, empty)

	one := []int{7}
	Shuffle(r, one)
	assert.Equal(t, []int{7}, one)
	assert.Empty(t, r.calls)
}

func TestShuffleIsPermutation(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for n := 0; n < 20; n++ {
		s := make([]int, n)
		for i := range s {
			s[i] = i % 5
		}
		want := append([]int(nil), s...)

		for round := 0; round < 10; round++ {
			Shuffle(r, s)
			got := append([]int(nil), s...)
			sort.Ints(got)
			sort.Ints(want)
			require.Equal(t, want, got)
		}
	}
}

func TestShuffleAnswersPreservesContent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	q := entities.NewQuestion("id", "Math", "Q", []string{"a", "b", "c", "d"}, 2, "", "")

	for i := 0; i < 200; i++ {
		ShuffleAnswers(r, &q)

		assert.ElementsMatch(t, q.OriginalOptions, q.CurrentOptions)
		assert.Equal(t, q.OriginalOptions[q.OriginalCorrect], q.CurrentOptions[q.CurrentCorrect])
		assert.Equal(t, []string{"a", "b", "c", "d"}, q.OriginalOptions)
		assert.Equal(t, 2, q.OriginalCorrect)
	}
}

func TestShuffleAnswersDuplicateOptionText(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	q := entities.NewQuestion("id", "Trick", "Pick the second yes", []string{"yes", "yes", "no", "maybe"}, 1, "", "")

	for i := 0; i < 200; i++ {
		ShuffleAnswers(r, &q)
		require.Equal(t, 1, q.Permutation[q.CurrentCorrect], "the correct slot follows the original index, not the first matching text")
	}
}

func TestShuffleQuestionsAndAnswers(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	qs := []entities.Question{
		entities.NewQuestion("1", "c", "q1", []string{"a", "b", "c", "d"}, 0, "", ""),
		entities.NewQuestion("2", "c", "q2", []string{"a", "b", "c", "d"}, 1, "", ""),
		entities.NewQuestion("3", "c", "q3", []string{"a", "b", "c", "d"}, 2, "", ""),
	}

	ShuffleQuestionsAndAnswers(r, qs)

	ids := make([]string, 0, len(qs))
	for i := range qs {
		ids = append(ids, qs[i].ID)
		assert.Equal(t, qs[i].OriginalOptions[qs[i].OriginalCorrect], qs[i].CurrentOptions[qs[i].CurrentCorrect])
	}
	assert.ElementsMatch(t, []string{"1", "2", "3"}, ids)
}
