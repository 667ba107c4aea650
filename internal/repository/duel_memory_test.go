package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeclash/internal/model"
)

func newWaitingDuel(code string, createdAt time.Time) *model.Duel {
	return &model.Duel{
		Code:   code,
		Seed:   42,
		Status: model.DuelWaiting,
		Host: &model.PlayerSlot{
			PlayerID: "p_host",
			Username: "ada",
		},
		Exercises: []model.Exercise{{Slug: "a"}, {Slug: "b"}, {Slug: "c"}, {Slug: "d"}, {Slug: "e"}},
		CreatedAt: createdAt,
	}
}

func TestCreateDuplicateCode(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryDuelRepo()

	require.NoError(t, repo.Create(ctx, newWaitingDuel("ABC234", time.Now())))
	err := repo.Create(ctx, newWaitingDuel("ABC234", time.Now()))

	assert.ErrorIs(t, err, ErrCodeTaken)
}

func TestGetUnknownCode(t *testing.T) {
	repo := NewMemoryDuelRepo()

	d, err := repo.Get(context.Background(), "NOPE22")

	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestSetFieldsDottedPaths(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryDuelRepo()
	require.NoError(t, repo.Create(ctx, newWaitingDuel("ABC234", time.Now())))

	finished := time.Now().UTC()
	require.NoError(t, repo.SetFields(ctx, "ABC234", map[string]interface{}{
		"guest":  &model.PlayerSlot{PlayerID: "p_guest", Username: "grace"},
		"status": model.DuelReady,
	}))
	require.NoError(t, repo.SetFields(ctx, "ABC234", map[string]interface{}{
		"host.ready":            true,
		"guest.correctAnswers":  3,
		"guest.currentQuestion": 4,
		"guest.finishedAt":      finished,
	}))

	d, err := repo.Get(ctx, "ABC234")
	require.NoError(t, err)
	assert.Equal(t, model.DuelReady, d.Status)
	assert.True(t, d.Host.Ready)
	require.NotNil(t, d.Guest)
	assert.Equal(t, "grace", d.Guest.Username)
	assert.Equal(t, 3, d.Guest.CorrectAnswers)
	assert.Equal(t, 4, d.Guest.CurrentQuestion)
	require.NotNil(t, d.Guest.FinishedAt)
	assert.True(t, d.Guest.FinishedAt.Equal(finished))
}

func TestGetReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryDuelRepo()
	require.NoError(t, repo.Create(ctx, newWaitingDuel("ABC234", time.Now())))

	first, err := repo.Get(ctx, "ABC234")
	require.NoError(t, err)
	first.Host.Ready = true
	first.Status = model.DuelFinished

	second, err := repo.Get(ctx, "ABC234")
	require.NoError(t, err)
	assert.False(t, second.Host.Ready)
	assert.Equal(t, model.DuelWaiting, second.Status)
}

func TestSubscribeFiresImmediatelyThenPerWrite(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryDuelRepo()
	require.NoError(t, repo.Create(ctx, newWaitingDuel("ABC234", time.Now())))

	var seen []model.DuelStatus
	cancel, err := repo.Subscribe(ctx, "ABC234", func(d *model.Duel) {
		seen = append(seen, d.Status)
	})
	require.NoError(t, err)
	defer cancel()

	require.Equal(t, []model.DuelStatus{model.DuelWaiting}, seen, "initial snapshot must fire before any write")

	require.NoError(t, repo.SetFields(ctx, "ABC234", map[string]interface{}{"status": model.DuelReady}))
	require.NoError(t, repo.SetFields(ctx, "ABC234", map[string]interface{}{"status": model.DuelPlaying}))

	assert.Equal(t, []model.DuelStatus{model.DuelWaiting, model.DuelReady, model.DuelPlaying}, seen,
		"notifications must arrive in write order")
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryDuelRepo()
	require.NoError(t, repo.Create(ctx, newWaitingDuel("ABC234", time.Now())))

	calls := 0
	cancel, err := repo.Subscribe(ctx, "ABC234", func(*model.Duel) { calls++ })
	require.NoError(t, err)

	cancel()
	cancel()
	cancel()

	require.NoError(t, repo.SetFields(ctx, "ABC234", map[string]interface{}{"status": model.DuelReady}))
	assert.Equal(t, 1, calls, "only the initial snapshot should have been delivered")
}

func TestDeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryDuelRepo()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, newWaitingDuel("OLD222", now.Add(-31*time.Minute))))
	require.NoError(t, repo.Create(ctx, newWaitingDuel("NEW222", now.Add(-29*time.Minute))))

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	old, err := repo.Get(ctx, "OLD222")
	require.NoError(t, err)
	assert.Nil(t, old)

	fresh, err := repo.Get(ctx, "NEW222")
	require.NoError(t, err)
	assert.NotNil(t, fresh)
}

func TestNormalize(t *testing.T) {
	var nilTime *time.Time
	var nilSlot *model.PlayerSlot
	now := time.Now()

	out := Normalize(map[string]interface{}{
		"finishedAt":       nilTime,
		"guest":            nilSlot,
		"startedAt":        now,
		"host.ready":       true,
		"guest.finishedAt": &now,
	})

	// Typed nils become explicit nulls, but the keys survive.
	require.Contains(t, out, "finishedAt")
	assert.Nil(t, out["finishedAt"])
	require.Contains(t, out, "guest")
	assert.Nil(t, out["guest"])

	assert.Equal(t, now, out["startedAt"])
	assert.Equal(t, true, out["host.ready"])
	assert.Equal(t, &now, out["guest.finishedAt"])
}
