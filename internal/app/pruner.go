package app

import (
	"context"
	"time"
)

const defaultPruneInterval = time.Minute

// Refresher is run on every pruner tick.
type Refresher interface {
	Refresh()
}

// StartPruner launches a background goroutine that calls r.Refresh right
// away and then at a fixed cadence until ctx is cancelled. It returns
// immediately; the returned channel is closed when the goroutine exits.
func StartPruner(ctx context.Context, r Refresher, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPruneInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			r.Refresh()
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}
