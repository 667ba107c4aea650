package model

import "time"

type DuelStatus string

const (
	DuelWaiting  DuelStatus = "WAITING"
	DuelReady    DuelStatus = "READY"
	DuelPlaying  DuelStatus = "PLAYING"
	DuelFinished DuelStatus = "FINISHED"
)

// Rank orders statuses for monotonicity checks: a duel's status never moves
// to a lower rank.
func (s DuelStatus) Rank() int {
	switch s {
	case DuelWaiting:
		return 0
	case DuelReady:
		return 1
	case DuelPlaying:
		return 2
	case DuelFinished:
		return 3
	}
	return -1
}

// DuelExerciseCount is the fixed length of a duel's exercise list.
const DuelExerciseCount = 5

// PlayerSlot is one participant's half of a duel record. Each client writes
// only to its own slot; the opponent's slot is read-only to it.
type PlayerSlot struct {
	PlayerID        string     `json:"playerId" bson:"playerId"`
	Username        string     `json:"username" bson:"username"`
	Ready           bool       `json:"ready" bson:"ready"`
	CorrectAnswers  int        `json:"correctAnswers" bson:"correctAnswers"`
	Errors          int        `json:"errors" bson:"errors"`
	CurrentQuestion int        `json:"currentQuestion" bson:"currentQuestion"`
	FinishedAt      *time.Time `json:"finishedAt" bson:"finishedAt"`
}

// Duel is the shared session record, one document per duel keyed by code.
type Duel struct {
	Code       string      `json:"code" bson:"_id"`
	Seed       int32       `json:"seed" bson:"seed"`
	Status     DuelStatus  `json:"status" bson:"status"`
	Host       *PlayerSlot `json:"host" bson:"host"`
	Guest      *PlayerSlot `json:"guest" bson:"guest"`
	Exercises  []Exercise  `json:"exercises" bson:"exercises"`
	CreatedAt  time.Time   `json:"createdAt" bson:"createdAt"`
	StartedAt  *time.Time  `json:"startedAt" bson:"startedAt"`
	FinishedAt *time.Time  `json:"finishedAt" bson:"finishedAt"`
}

// ScoreUpdate is a partial, per-player progress write. Nil fields are left
// untouched in the record.
type ScoreUpdate struct {
	CorrectAnswers  *int       `json:"correctAnswers,omitempty"`
	Errors          *int       `json:"errors,omitempty"`
	CurrentQuestion *int       `json:"currentQuestion,omitempty"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty"`
}

// NextStatus is the convergence function: given a freshly read record it
// returns the highest status the record's contents justify, never lower than
// the current one. Every mutator applies it after its own write and performs
// the transition itself when the result advances.
func NextStatus(d *Duel) DuelStatus {
	next := d.Status
	if d.Host != nil && d.Guest != nil {
		if d.Host.FinishedAt != nil && d.Guest.FinishedAt != nil {
			if DuelFinished.Rank() > next.Rank() {
				next = DuelFinished
			}
		} else if d.Host.Ready && d.Guest.Ready {
			if DuelPlaying.Rank() > next.Rank() {
				next = DuelPlaying
			}
		}
	}
	return next
}
