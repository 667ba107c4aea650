package game

import (
	"math"
	"time"

	"codeclash/internal/model"
)

const lcgModulus = 1 << 31

// HashSeed maps an arbitrary string to a non-negative selector seed using a
// rolling hash truncated to 32 bits.
func HashSeed(s string) int32 {
	var h int32
	for _, b := range []byte(s) {
		h = h*31 + int32(b)
	}
	if h == math.MinInt32 {
		return 0
	}
	if h < 0 {
		return -h
	}
	return h
}

// DuelSeed derives a duel's seed from its code salted with the creation time,
// so reusing a code later never reproduces the same exercise list. The
// selection is materialized into the record at creation and the seed is kept
// only for replay value.
func DuelSeed(code string, createdAt time.Time) int32 {
	return HashSeed(code + createdAt.UTC().Format(time.RFC3339Nano))
}

// DailySeed derives the daily-challenge seed from the UTC calendar date
// alone, so every client recomputes the identical selection with no shared
// state.
func DailySeed(day time.Time) int32 {
	return HashSeed(day.UTC().Format("2006-01-02"))
}

// lcg is the deterministic pseudo-random source behind Select. It must never
// change: identical seeds have to keep producing identical selections across
// releases and clients.
type lcg struct {
	state int64
}

func newLCG(seed int32) *lcg {
	return &lcg{state: int64(seed) % lcgModulus}
}

func (r *lcg) next() int64 {
	r.state = (r.state*1103515245 + 12345) % lcgModulus
	return r.state
}

// Select Fisher-Yates-shuffles the pool with an LCG seeded at seed and
// returns the first n items. The pool's order is part of the contract: the
// same seed over a reordered pool yields a different selection.
func Select(seed int32, pool []model.Exercise, n int) []model.Exercise {
	items := make([]model.Exercise, len(pool))
	copy(items, pool)

	r := newLCG(seed)
	for i := len(items) - 1; i > 0; i-- {
		j := int(r.next() % int64(i+1))
		items[i], items[j] = items[j], items[i]
	}

	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
