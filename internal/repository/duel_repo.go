package repository

import (
	"context"
	"errors"
	"time"

	"codeclash/internal/model"
)

// ErrCodeTaken is returned by Create when the code is already in use. The
// caller treats it as a retryable collision and generates a fresh code.
var ErrCodeTaken = errors.New("duel code already taken")

// DuelRepo is the narrow contract the duel protocol needs from the document
// store: keyed create/read/delete, field-granular merge writes, and a change
// feed per record. The protocol owns no other shared state, so everything in
// the lifecycle is testable against the in-memory implementation.
//
// Consistency contract: a client's own write is visible to its next Get
// (read-after-own-write); other clients see it only through Subscribe, with
// arbitrary delay but never reordered against other writes on the same
// record.
type DuelRepo interface {
	// Create inserts a new record keyed by duel.Code. Returns ErrCodeTaken
	// if the key already exists.
	Create(ctx context.Context, duel *model.Duel) error

	// Get returns the record, or (nil, nil) when the code is unknown.
	Get(ctx context.Context, code string) (*model.Duel, error)

	// SetFields merges individual fields into the record. Paths use dotted
	// notation ("host.ready", "guest.finishedAt", "status"). Values are
	// normalized before persistence so the store never sees an unset field.
	SetFields(ctx context.Context, code string, fields map[string]interface{}) error

	// Delete removes the record by code.
	Delete(ctx context.Context, code string) error

	// DeleteOlderThan removes every record created before cutoff, regardless
	// of status, and returns how many were removed. Best-effort: one failed
	// deletion must not stop the sweep.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Subscribe registers onChange for the record. It fires once with the
	// current state immediately, then after every subsequent write by any
	// client, in write order. The returned cancel func is idempotent and
	// must be called on every code path that stops needing updates.
	Subscribe(ctx context.Context, code string, onChange func(*model.Duel)) (func(), error)
}
