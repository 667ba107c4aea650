package service

import (
	"context"
	"fmt"
	"time"

	"codeclash/internal/game"
	"codeclash/internal/model"
	"codeclash/internal/repository"
)

const createAttempts = 10

// DuelService runs the duel lifecycle over the shared duel record. There is
// no central arbiter: every mutation is one field-granular write followed by
// a re-read of the full record, and whichever caller's re-read observes a
// satisfied transition guard performs the transition itself. The harmless
// race of both players attempting the same transition resolves to idempotent
// merge writes of the same values.
type DuelService struct {
	duels     repository.DuelRepo
	exercises repository.ExerciseRepo
}

// NewDuelService creates a new duel service
func NewDuelService(duels repository.DuelRepo, exercises repository.ExerciseRepo) *DuelService {
	return &DuelService{
		duels:     duels,
		exercises: exercises,
	}
}

// CreateDuel materializes a new duel record: fresh code, time-salted seed,
// and the exercise list selected once and persisted. The guest never re-runs
// the selector. An empty hostID gets a server-assigned anonymous id.
func (s *DuelService) CreateDuel(ctx context.Context, hostID, hostUsername string) (*model.Duel, error) {
	if hostID == "" {
		hostID = NewPlayerID()
	}

	pool, err := s.exercises.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load exercise pool: %w", err)
	}
	if len(pool) < model.DuelExerciseCount {
		return nil, fmt.Errorf("exercise pool too small: have %d, need %d", len(pool), model.DuelExerciseCount)
	}

	for attempts := 0; attempts < createAttempts; attempts++ {
		code, err := game.GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate duel code: %w", err)
		}

		createdAt := time.Now().UTC()
		seed := game.DuelSeed(code, createdAt)

		duel := &model.Duel{
			Code:   code,
			Seed:   seed,
			Status: model.DuelWaiting,
			Host: &model.PlayerSlot{
				PlayerID: hostID,
				Username: hostUsername,
			},
			Guest:     nil,
			Exercises: game.Select(seed, pool, model.DuelExerciseCount),
			CreatedAt: createdAt,
		}

		err = s.duels.Create(ctx, duel)
		if err == repository.ErrCodeTaken {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create duel: %w", err)
		}
		return duel, nil
	}

	return nil, fmt.Errorf("failed to find a free duel code after %d attempts", createAttempts)
}

// JoinDuel fills the guest slot, a one-shot operation. Guards are evaluated
// against a fresh read and a violating join performs no mutation.
func (s *DuelService) JoinDuel(ctx context.Context, code, guestID, guestUsername string) (*model.Duel, error) {
	duel, err := s.duels.Get(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to read duel: %w", err)
	}
	if duel == nil {
		return nil, ErrNotFound
	}
	// The guest-slot guard comes first: a duel that filled up has also left
	// WAITING, and the caller should hear "full", not "started".
	if duel.Guest != nil {
		return nil, ErrAlreadyFull
	}
	if duel.Host != nil && duel.Host.PlayerID == guestID {
		return nil, ErrSelfJoin
	}
	if duel.Status != model.DuelWaiting {
		return nil, ErrAlreadyStarted
	}

	if guestID == "" {
		guestID = NewPlayerID()
	}

	err = s.duels.SetFields(ctx, code, map[string]interface{}{
		"guest": &model.PlayerSlot{
			PlayerID: guestID,
			Username: guestUsername,
		},
		"status": model.DuelReady,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join duel: %w", err)
	}

	joined, err := s.duels.Get(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to read duel after join: %w", err)
	}
	if joined == nil {
		return nil, ErrNotFound
	}
	return joined, nil
}

// SetReady flips the caller's ready flag and then runs the convergence
// check: if the re-read shows both flags true, this caller performs the
// PLAYING transition. Read-after-own-write guarantees that the second of two
// near-simultaneous SetReady calls observes both flags.
func (s *DuelService) SetReady(ctx context.Context, code, playerID string) error {
	prefix, err := s.slotPrefix(ctx, code, playerID)
	if err != nil {
		return err
	}

	err = s.duels.SetFields(ctx, code, map[string]interface{}{
		prefix + ".ready": true,
	})
	if err != nil {
		return fmt.Errorf("failed to set ready flag: %w", err)
	}

	return s.converge(ctx, code)
}

// UpdateScore merges the caller's partial progress update into its own slot.
// Progress fields carry no ordering requirement against the opponent; only a
// finishedAt write can trigger a transition, via the convergence check.
func (s *DuelService) UpdateScore(ctx context.Context, code, playerID string, update model.ScoreUpdate) error {
	prefix, err := s.slotPrefix(ctx, code, playerID)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if update.CorrectAnswers != nil {
		fields[prefix+".correctAnswers"] = *update.CorrectAnswers
	}
	if update.Errors != nil {
		fields[prefix+".errors"] = *update.Errors
	}
	if update.CurrentQuestion != nil {
		fields[prefix+".currentQuestion"] = *update.CurrentQuestion
	}
	if update.FinishedAt != nil {
		fields[prefix+".finishedAt"] = *update.FinishedAt
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.duels.SetFields(ctx, code, fields); err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}

	return s.converge(ctx, code)
}

// converge re-reads the record and performs whatever forward transition its
// contents now justify. Status only ever advances.
func (s *DuelService) converge(ctx context.Context, code string) error {
	duel, err := s.duels.Get(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to re-read duel: %w", err)
	}
	if duel == nil {
		return ErrNotFound
	}

	next := model.NextStatus(duel)
	if next == duel.Status {
		return nil
	}

	now := time.Now().UTC()
	fields := map[string]interface{}{"status": next}
	switch next {
	case model.DuelPlaying:
		fields["startedAt"] = now
	case model.DuelFinished:
		fields["finishedAt"] = now
	}

	if err := s.duels.SetFields(ctx, code, fields); err != nil {
		return fmt.Errorf("failed to advance duel to %s: %w", next, err)
	}
	return nil
}

// GetDuel returns the current duel record snapshot.
func (s *DuelService) GetDuel(ctx context.Context, code string) (*model.Duel, error) {
	duel, err := s.duels.Get(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to read duel: %w", err)
	}
	if duel == nil {
		return nil, ErrNotFound
	}
	return duel, nil
}

// DeleteDuel removes a duel. Only the host may delete, and only while the
// duel is still waiting for a guest; anything later is cleaned up by the
// reaper.
func (s *DuelService) DeleteDuel(ctx context.Context, code, requesterID string) error {
	duel, err := s.duels.Get(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to read duel: %w", err)
	}
	if duel == nil {
		return ErrNotFound
	}
	if duel.Host == nil || duel.Host.PlayerID != requesterID {
		return ErrNotHost
	}
	if duel.Status != model.DuelWaiting {
		return ErrAlreadyStarted
	}

	if err := s.duels.Delete(ctx, code); err != nil {
		return fmt.Errorf("failed to delete duel: %w", err)
	}
	return nil
}

// Subscribe attaches onChange to the duel's change feed. The callback fires
// immediately with the current record, then on every write in write order.
// The returned cancel is idempotent.
func (s *DuelService) Subscribe(ctx context.Context, code string, onChange func(*model.Duel)) (func(), error) {
	duel, err := s.duels.Get(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to read duel: %w", err)
	}
	if duel == nil {
		return nil, ErrNotFound
	}
	return s.duels.Subscribe(ctx, code, onChange)
}

// CleanupExpired deletes every duel older than thresholdMinutes, regardless
// of status, and returns the number deleted.
func (s *DuelService) CleanupExpired(ctx context.Context, thresholdMinutes int) (int64, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(thresholdMinutes) * time.Minute)
	deleted, err := s.duels.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return deleted, fmt.Errorf("failed to sweep expired duels: %w", err)
	}
	return deleted, nil
}

func (s *DuelService) slotPrefix(ctx context.Context, code, playerID string) (string, error) {
	duel, err := s.duels.Get(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to read duel: %w", err)
	}
	if duel == nil {
		return "", ErrNotFound
	}
	if duel.Host != nil && duel.Host.PlayerID == playerID {
		return "host", nil
	}
	if duel.Guest != nil && duel.Guest.PlayerID == playerID {
		return "guest", nil
	}
	return "", ErrNotFound
}
