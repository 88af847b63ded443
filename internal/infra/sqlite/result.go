package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
)

// HistoryLimit is the number of results kept per user.
const HistoryLimit = 100

// ResultRepository stores quiz results in SQLite.
type ResultRepository struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Save inserts the result and drops the user's results beyond HistoryLimit.
func (r *ResultRepository) Save(ctx context.Context, res *entities.QuizResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO quiz_results (id, user_key, category, correct, attempted, total, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.UserKey, res.Category, res.Correct, res.Attempted, res.Total,
		res.StartedAt.UnixMilli(), res.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM quiz_results
		WHERE user_key = ?
		  AND id NOT IN (
			SELECT id FROM quiz_results WHERE user_key = ? ORDER BY finished_at DESC LIMIT ?
		  )`,
		res.UserKey, res.UserKey, HistoryLimit,
	)
	if err != nil {
		return fmt.Errorf("trim quiz results: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListByUser returns the user's results, newest first. limit <= 0 means all.
func (r *ResultRepository) ListByUser(ctx context.Context, userKey string, limit int) ([]entities.QuizResult, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_key, category, correct, attempted, total, started_at, finished_at
		FROM quiz_results
		WHERE user_key = ?
		ORDER BY finished_at DESC
		LIMIT ?`,
		userKey, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	defer rows.Close()

	var results []entities.QuizResult
	for rows.Next() {
		var (
			res               entities.QuizResult
			started, finished int64
		)
		if err := rows.Scan(
			&res.ID, &res.UserKey, &res.Category, &res.Correct,
			&res.Attempted, &res.Total, &started, &finished,
		); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		res.StartedAt = time.UnixMilli(started).UTC()
		res.FinishedAt = time.UnixMilli(finished).UTC()
		results = append(results, res)
	}

	return results, rows.Err()
}
