// Package scheduler owns the tick lifecycle for the polling deployment
// mode: a single logical worker that runs the engine's per-tick pipeline
// on a timer, with overlap prevention and a consecutive-error counter for
// health reporting.
package scheduler

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"remindo/internal/engine"
)

// Scheduler runs engine.Tick on a fixed interval. Only one tick executes
// at a time: if a tick overruns the interval, the next timer fire is
// skipped rather than queued, matching the single-logical-worker model.
type Scheduler struct {
	engine   *engine.Engine
	interval time.Duration
	notifyCh chan struct{}

	running        atomic.Bool
	consecutiveErr atomic.Int64
}

func New(e *engine.Engine, interval time.Duration) *Scheduler {
	return &Scheduler{
		engine:   e,
		interval: interval,
		notifyCh: make(chan struct{}, 1),
	}
}

// Notify requests an immediate out-of-band tick, e.g. right after a
// reminder is created. Non-blocking if a tick is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// ConsecutiveErrors reports how many ticks in a row have failed, for
// health checks.
func (s *Scheduler) ConsecutiveErrors() int64 {
	return s.consecutiveErr.Load()
}

// Run blocks until ctx is cancelled, driving one tick per interval (plus
// any Notify-triggered ticks) and returning once the in-progress tick, if
// any, has finished.
func (s *Scheduler) Run(ctx context.Context) {
	log.Println("scheduler: started")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler: stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
			// Drop a timer fire that arrived while the tick ran, so an
			// overrunning tick skips the next fire instead of queuing it.
			select {
			case <-ticker.C:
			default:
			}
		case <-s.notifyCh:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		log.Println("scheduler: previous tick still running, skipping")
		return
	}
	defer s.running.Store(false)

	result, err := s.engine.Tick(ctx)
	if err != nil {
		s.consecutiveErr.Add(1)
		log.Printf("scheduler: tick failed: %v", err)
		return
	}
	s.consecutiveErr.Store(0)
	if result.Fired > 0 || result.Deactivated > 0 {
		log.Printf("scheduler: checked=%d fired=%d deactivated=%d", result.Checked, result.Fired, result.Deactivated)
	}
}
