package pos

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SweepInterval is how often the background sweeper runs
const SweepInterval = time.Minute

// RunSessionSweeper removes idle sessions until the context is canceled.
// Started from main alongside the HTTP server.
func RunSessionSweeper(ctx context.Context, store SessionStore, ttl time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := store.Sweep(ttl); removed > 0 {
				logger.Info("Swept idle POS sessions",
					zap.Int("removed", removed),
					zap.Duration("ttl", ttl),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}
