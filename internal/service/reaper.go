package service

import (
	"context"
	"log"
	"time"
)

// Reaper periodically sweeps duel records older than the threshold. It runs
// independently of active sessions: a duel mid-play past the threshold is
// deleted like any other. Sweeps are best-effort; a failed sweep is logged
// and retried on the next tick.
type Reaper struct {
	duels            *DuelService
	interval         time.Duration
	thresholdMinutes int
}

// NewReaper creates a new expiry reaper
func NewReaper(duels *DuelService, interval time.Duration, thresholdMinutes int) *Reaper {
	return &Reaper{
		duels:            duels,
		interval:         interval,
		thresholdMinutes: thresholdMinutes,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := r.duels.CleanupExpired(ctx, r.thresholdMinutes)
			if err != nil {
				log.Printf("Reaper sweep failed: %v", err)
				continue
			}
			if deleted > 0 {
				log.Printf("Reaper deleted %d expired duels", deleted)
			}
		}
	}
}
