package session

import (
	"context"
	"log/slog"
	"time"
)

// Janitor periodically deletes dead session rows. Expiry is enforced at
// resolve time regardless; the janitor only keeps the store from growing
// without bound.
type Janitor struct {
	log      *slog.Logger
	mgr      *Manager
	interval time.Duration
}

// NewJanitor constructs a Janitor sweeping at cfg.SweepInterval.
func NewJanitor(log *slog.Logger, mgr *Manager, interval time.Duration) *Janitor {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultConfig().SweepInterval
	}
	return &Janitor{log: log, mgr: mgr, interval: interval}
}

// Run sweeps until ctx is cancelled. It never returns an error: sweep
// failures are logged and retried on the next tick.
func (j *Janitor) Run(ctx context.Context) {
	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := j.mgr.Sweep(ctx, now.UTC())
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				j.log.Error("session.sweep.fail", "err", err)
				continue
			}
			if n > 0 {
				j.log.Info("session.sweep", "deleted", n)
			}
		}
	}
}
