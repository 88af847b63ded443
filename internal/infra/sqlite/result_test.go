package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
)

func TestResultRepository(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewResultRepository(db)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, &entities.QuizResult{
			ID:         fmt.Sprintf("r%d", i),
			UserKey:    "tg:1",
			Category:   "Math",
			Correct:    i,
			Attempted:  3,
			Total:      5,
			StartedAt:  base,
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := repo.ListByUser(ctx, "tg:1", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r2", all[0].ID)
	assert.Equal(t, 2, all[0].Correct)
	assert.Equal(t, base.Add(2*time.Minute), all[0].FinishedAt)
	assert.Equal(t, base, all[0].StartedAt)

	one, err := repo.ListByUser(ctx, "tg:1", 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)

	none, err := repo.ListByUser(ctx, "tg:2", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestResultRepositoryTrimsHistory(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewResultRepository(db)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < HistoryLimit+5; i++ {
		require.NoError(t, repo.Save(ctx, &entities.QuizResult{
			ID:         fmt.Sprintf("r%03d", i),
			UserKey:    "tg:1",
			Correct:    1,
			Attempted:  1,
			FinishedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	all, err := repo.ListByUser(ctx, "tg:1", 0)
	require.NoError(t, err)
	assert.Len(t, all, HistoryLimit)
	assert.Equal(t, fmt.Sprintf("r%03d", HistoryLimit+4), all[0].ID)
}
