package service

import (
	"context"
	"fmt"

	"github.com/aliskhannn/quiz-deck-bot/internal/domain/entities"
)

const recentResults = 5

type StatsService struct {
	results ResultRepository
}

func NewStatsService(results ResultRepository) *StatsService {
	return &StatsService{results: results}
}

// Summary aggregates the recorded results of one user.
type Summary struct {
	Sessions  int                   `json:"sessions"`
	Attempted int                   `json:"attempted"`
	Correct   int                   `json:"correct"`
	Accuracy  int                   `json:"accuracy"`
	Best      *entities.QuizResult  `json:"best,omitempty"`
	Recent    []entities.QuizResult `json:"recent"` // newest first
}

func (s *StatsService) Summary(ctx context.Context, userKey string) (*Summary, error) {
	results, err := s.results.ListByUser(ctx, userKey, 0)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	summary := &Summary{Sessions: len(results)}
	for i := range results {
		r := results[i]
		summary.Attempted += r.Attempted
		summary.Correct += r.Correct

		if summary.Best == nil || r.Better(*summary.Best) {
			summary.Best = &r
		}
	}
	summary.Accuracy = entities.Accuracy(summary.Correct, summary.Attempted)

	if len(results) > recentResults {
		results = results[:recentResults]
	}
	summary.Recent = results

	return summary, nil
}
