package service

import (
	"context"
	"fmt"
	"time"

	"codeclash/internal/cache"
	"codeclash/internal/game"
	"codeclash/internal/model"
	"codeclash/internal/repository"
)

// dayFormat keys daily challenges and their leaderboards.
const dayFormat = "2006-01-02"

// DailyService serves the daily challenge: every client independently
// derives the same 5 exercises from the UTC calendar date, with no shared
// state. The server computes the exact same selection because the seed and
// the slug-ordered pool are the whole input.
type DailyService struct {
	exercises   repository.ExerciseRepo
	leaderboard cache.LeaderboardCache
}

// NewDailyService creates a new daily challenge service
func NewDailyService(exercises repository.ExerciseRepo, leaderboard cache.LeaderboardCache) *DailyService {
	return &DailyService{
		exercises:   exercises,
		leaderboard: leaderboard,
	}
}

// Challenge returns the day's exercise selection and its date key.
func (s *DailyService) Challenge(ctx context.Context, day time.Time) ([]model.Exercise, string, error) {
	pool, err := s.exercises.GetAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load exercise pool: %w", err)
	}
	if len(pool) == 0 {
		return nil, "", fmt.Errorf("exercise pool is empty")
	}

	dayKey := day.UTC().Format(dayFormat)
	selected := game.Select(game.DailySeed(day), pool, model.DuelExerciseCount)
	return selected, dayKey, nil
}

// SubmitScore records a player's daily-challenge result: best score of the
// day on the daily board plus XP on the all-time board.
func (s *DailyService) SubmitScore(ctx context.Context, day time.Time, playerID string, score, xp int) error {
	if playerID == "" {
		return fmt.Errorf("playerID is required")
	}

	dayKey := day.UTC().Format(dayFormat)
	if err := s.leaderboard.SetDailyScore(ctx, dayKey, playerID, score); err != nil {
		return fmt.Errorf("failed to record daily score: %w", err)
	}
	if xp > 0 {
		if err := s.leaderboard.AddXP(ctx, playerID, xp); err != nil {
			return fmt.Errorf("failed to add xp: %w", err)
		}
	}
	return nil
}

// Leaderboard returns the top entries for the given day.
func (s *DailyService) Leaderboard(ctx context.Context, day time.Time, limit int) ([]cache.Entry, error) {
	return s.leaderboard.TopDaily(ctx, day.UTC().Format(dayFormat), limit)
}

// TopXP returns the all-time XP leaderboard.
func (s *DailyService) TopXP(ctx context.Context, limit int) ([]cache.Entry, error) {
	return s.leaderboard.TopXP(ctx, limit)
}
