// Package worker contains the background loops started by the server.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// SessionExpirer removes sessions idle since before cutoff.
// Implemented by session.Manager.
type SessionExpirer interface {
	ExpireIdle(cutoff time.Time) int
	Count() int
}

// SweepCoordinator periodically expires idle sessions. Sessions hold no
// durable state, so expiry is a plain delete; there is nothing to flush.
type SweepCoordinator struct {
	expirer  SessionExpirer
	interval time.Duration
	idleTTL  time.Duration
}

// NewSweepCoordinator creates a coordinator that sweeps every interval and
// expires sessions idle for longer than idleTTL.
func NewSweepCoordinator(expirer SessionExpirer, interval, idleTTL time.Duration) *SweepCoordinator {
	return &SweepCoordinator{
		expirer:  expirer,
		interval: interval,
		idleTTL:  idleTTL,
	}
}

// Run starts the sweep loop. It blocks until ctx is cancelled. The first
// sweep happens after one full interval; a fresh server has nothing to expire.
func (c *SweepCoordinator) Run(ctx context.Context) {
	slog.Info("sweep coordinator started",
		"component", "worker",
		"worker", "session-sweep",
		"interval", c.interval.String(),
		"idle_ttl", c.idleTTL.String(),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("sweep coordinator stopped",
				"component", "worker",
				"worker", "session-sweep",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *SweepCoordinator) sweep() {
	start := time.Now()
	expired := c.expirer.ExpireIdle(start.Add(-c.idleTTL))
	if expired > 0 {
		slog.Info("sweep cycle completed",
			"component", "worker",
			"worker", "session-sweep",
			"sessions_expired", expired,
			"sessions_remaining", c.expirer.Count(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
