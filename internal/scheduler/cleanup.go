package scheduler

import (
	"context"
	"log"
	"time"

	"remindo/internal/engine"
)

// CleanupRunner drives engine.Cleanup on a low-frequency interval,
// independent of the firing loop's tick interval. It runs in polling mode;
// in event mode the cleanup webhook handler calls engine.Cleanup directly,
// and that is the only GC path there.
type CleanupRunner struct {
	engine   *engine.Engine
	interval time.Duration
}

func NewCleanupRunner(e *engine.Engine, interval time.Duration) *CleanupRunner {
	return &CleanupRunner{engine: e, interval: interval}
}

func (c *CleanupRunner) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.RunOnce(ctx)
		}
	}
}

func (c *CleanupRunner) RunOnce(ctx context.Context) (engine.CleanupResult, error) {
	result, err := c.engine.Cleanup(ctx)
	if err != nil {
		log.Printf("cleanup: sweep failed: %v", err)
		return result, err
	}
	log.Printf("cleanup: checked=%d deactivated=%d", result.Checked, result.Deactivated)
	return result, nil
}
