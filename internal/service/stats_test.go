package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
)

type failingResults struct{}

func (failingResults) Save(context.Context, *entities.QuizResult) error {
	return errors.New("boom")
}

func (failingResults) ListByUser(context.Context, string, int) ([]entities.QuizResult, error) {
	return nil, errors.New("boom")
}

func TestStatsSummary(t *testing.T) {
	results := &fakeResults{}
	ctx := context.Background()
	for i, r := range []entities.QuizResult{
		{Correct: 1, Attempted: 4},
		{Correct: 3, Attempted: 3},
		{Correct: 2, Attempted: 4},
		{Correct: 0, Attempted: 1},
		{Correct: 1, Attempted: 1},
		{Correct: 5, Attempted: 5},
	} {
		r.ID = string(rune('a' + i))
		r.UserKey = "tg:1"
		require.NoError(t, results.Save(ctx, &r))
	}

	summary, err := NewStatsService(results).Summary(ctx, "tg:1")
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Sessions)
	assert.Equal(t, 12, summary.Correct)
	assert.Equal(t, 18, summary.Attempted)
	assert.Equal(t, 67, summary.Accuracy)
	require.NotNil(t, summary.Best)
	assert.Equal(t, "f", summary.Best.ID, "100% with the most correct answers")
	assert.Len(t, summary.Recent, recentResults)
}

func TestStatsSummaryEmpty(t *testing.T) {
	summary, err := NewStatsService(&fakeResults{}).Summary(context.Background(), "tg:1")
	require.NoError(t, err)

	assert.Zero(t, summary.Sessions)
	assert.Zero(t, summary.Accuracy)
	assert.Nil(t, summary.Best)
	assert.Empty(t, summary.Recent)
}

func TestStatsSummaryError(t *testing.T) {
	_, err := NewStatsService(failingResults{}).Summary(context.Background(), "tg:1")
	assert.Error(t, err)
}
