package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"codeclash/internal/model"
)

// memoryDuelRepo is an in-memory DuelRepo used by tests and local runs. It
// honors the same contract as the mongo implementation: read-after-own-write
// within a caller, and per-record change notifications in write order
// (delivery is synchronous with the write, which trivially preserves order).
type memoryDuelRepo struct {
	mu     sync.Mutex
	duels  map[string]*model.Duel
	subs   map[string]map[int]func(*model.Duel)
	nextID int
}

// NewMemoryDuelRepo creates an empty in-memory duel repository.
func NewMemoryDuelRepo() DuelRepo {
	return &memoryDuelRepo{
		duels: make(map[string]*model.Duel),
		subs:  make(map[string]map[int]func(*model.Duel)),
	}
}

func (r *memoryDuelRepo) Create(_ context.Context, duel *model.Duel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.duels[duel.Code]; ok {
		return ErrCodeTaken
	}
	r.duels[duel.Code] = copyDuel(duel)
	r.notifyLocked(duel.Code)
	return nil
}

func (r *memoryDuelRepo) Get(_ context.Context, code string) (*model.Duel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.duels[code]
	if !ok {
		return nil, nil
	}
	return copyDuel(d), nil
}

func (r *memoryDuelRepo) SetFields(_ context.Context, code string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.duels[code]
	if !ok {
		return fmt.Errorf("duel %s not found", code)
	}
	for path, v := range Normalize(fields) {
		if err := applyField(d, path, v); err != nil {
			return err
		}
	}
	r.notifyLocked(code)
	return nil
}

func (r *memoryDuelRepo) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.duels, code)
	return nil
}

func (r *memoryDuelRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for code, d := range r.duels {
		if d.CreatedAt.Before(cutoff) {
			delete(r.duels, code)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memoryDuelRepo) Subscribe(_ context.Context, code string, onChange func(*model.Duel)) (func(), error) {
	r.mu.Lock()

	if r.subs[code] == nil {
		r.subs[code] = make(map[int]func(*model.Duel))
	}
	id := r.nextID
	r.nextID++
	r.subs[code][id] = onChange

	var snapshot *model.Duel
	if d, ok := r.duels[code]; ok {
		snapshot = copyDuel(d)
	}
	r.mu.Unlock()

	if snapshot != nil {
		onChange(snapshot)
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs[code], id)
			r.mu.Unlock()
		})
	}
	return cancel, nil
}

func (r *memoryDuelRepo) notifyLocked(code string) {
	d, ok := r.duels[code]
	if !ok {
		return
	}
	for _, onChange := range r.subs[code] {
		onChange(copyDuel(d))
	}
}

// applyField mirrors the dotted-path $set semantics of the document store
// for the paths the protocol actually writes.
func applyField(d *model.Duel, path string, v interface{}) error {
	switch {
	case path == "status":
		switch s := v.(type) {
		case model.DuelStatus:
			d.Status = s
		case string:
			d.Status = model.DuelStatus(s)
		}
	case path == "startedAt":
		d.StartedAt = toTimePtr(v)
	case path == "finishedAt":
		d.FinishedAt = toTimePtr(v)
	case path == "guest":
		d.Guest = toSlotPtr(v)
	case path == "host":
		d.Host = toSlotPtr(v)
	case strings.HasPrefix(path, "host."):
		if d.Host == nil {
			d.Host = &model.PlayerSlot{}
		}
		return applySlotField(d.Host, strings.TrimPrefix(path, "host."), v)
	case strings.HasPrefix(path, "guest."):
		if d.Guest == nil {
			d.Guest = &model.PlayerSlot{}
		}
		return applySlotField(d.Guest, strings.TrimPrefix(path, "guest."), v)
	default:
		return fmt.Errorf("unsupported field path %q", path)
	}
	return nil
}

func applySlotField(slot *model.PlayerSlot, field string, v interface{}) error {
	switch field {
	case "ready":
		b, _ := v.(bool)
		slot.Ready = b
	case "correctAnswers":
		slot.CorrectAnswers = toInt(v)
	case "errors":
		slot.Errors = toInt(v)
	case "currentQuestion":
		slot.CurrentQuestion = toInt(v)
	case "finishedAt":
		slot.FinishedAt = toTimePtr(v)
	default:
		return fmt.Errorf("unsupported slot field %q", field)
	}
	return nil
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	}
	return 0
}

func toTimePtr(v interface{}) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		c := t
		return &c
	case *time.Time:
		if t == nil {
			return nil
		}
		c := *t
		return &c
	}
	return nil
}

func toSlotPtr(v interface{}) *model.PlayerSlot {
	switch s := v.(type) {
	case nil:
		return nil
	case model.PlayerSlot:
		c := s
		return copySlot(&c)
	case *model.PlayerSlot:
		return copySlot(s)
	}
	return nil
}

func copyDuel(d *model.Duel) *model.Duel {
	c := *d
	c.Host = copySlot(d.Host)
	c.Guest = copySlot(d.Guest)
	if d.Exercises != nil {
		c.Exercises = make([]model.Exercise, len(d.Exercises))
		copy(c.Exercises, d.Exercises)
	}
	c.StartedAt = toTimePtr(d.StartedAt)
	c.FinishedAt = toTimePtr(d.FinishedAt)
	return &c
}

func copySlot(s *model.PlayerSlot) *model.PlayerSlot {
	if s == nil {
		return nil
	}
	c := *s
	c.FinishedAt = toTimePtr(s.FinishedAt)
	return &c
}
