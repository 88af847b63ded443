package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-deck-bot/internal/infra/postgres"
)

// HistoryLimit is the number of results kept per user.
const HistoryLimit = 100

// ResultRepository provides access to quiz results in the database.
type ResultRepository struct {
	db postgres.DBTX
}

// NewResultRepository creates a ResultRepository on a pool or a transaction.
func NewResultRepository(db postgres.DBTX) *ResultRepository {
	return &ResultRepository{db: db}
}

// Insert stores one result.
func (r *ResultRepository) Insert(ctx context.Context, res *entities.QuizResult) error {
	id, err := uuid.Parse(res.ID)
	if err != nil {
		return fmt.Errorf("parse result id: %w", err)
	}

	query := `
		INSERT INTO quiz_results (
			id, user_key, category, correct, attempted, total, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.Exec(ctx, query,
		id,
		res.UserKey,
		res.Category,
		res.Correct,
		res.Attempted,
		res.Total,
		res.StartedAt,
		res.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}

	return nil
}

// Trim deletes the user's results beyond the newest keep.
func (r *ResultRepository) Trim(ctx context.Context, userKey string, keep int) error {
	query := `
		DELETE FROM quiz_results
		WHERE user_key = $1
		  AND id NOT IN (
			SELECT id FROM quiz_results
			WHERE user_key = $1
			ORDER BY finished_at DESC
			LIMIT $2
		  )
	`

	if _, err := r.db.Exec(ctx, query, userKey, keep); err != nil {
		return fmt.Errorf("trim quiz results: %w", err)
	}
	return nil
}

// ListByUser returns the user's results, newest first. limit <= 0 means all.
func (r *ResultRepository) ListByUser(ctx context.Context, userKey string, limit int) ([]entities.QuizResult, error) {
	query := `
		SELECT id, user_key, category, correct, attempted, total, started_at, finished_at
		FROM quiz_results
		WHERE user_key = $1
		ORDER BY finished_at DESC
	`
	args := []any{userKey}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	defer rows.Close()

	var results []entities.QuizResult
	for rows.Next() {
		var (
			res entities.QuizResult
			id  uuid.UUID
		)
		if err := rows.Scan(
			&id, &res.UserKey, &res.Category, &res.Correct,
			&res.Attempted, &res.Total, &res.StartedAt, &res.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		res.ID = id.String()
		results = append(results, res)
	}

	return results, rows.Err()
}

// ResultStore saves results transactionally and keeps each user's history bounded.
type ResultStore struct {
	db postgres.DBTX
	tr *postgres.Transactor
}

func NewResultStore(db postgres.DBTX, tr *postgres.Transactor) *ResultStore {
	return &ResultStore{db: db, tr: tr}
}

func (s *ResultStore) Save(ctx context.Context, res *entities.QuizResult) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := NewResultRepository(tx)

		if err := repo.Insert(ctx, res); err != nil {
			return err
		}

		return repo.Trim(ctx, res.UserKey, HistoryLimit)
	})
}

func (s *ResultStore) ListByUser(ctx context.Context, userKey string, limit int) ([]entities.QuizResult, error) {
	return NewResultRepository(s.db).ListByUser(ctx, userKey, limit)
}
