package checks

import (
	"context"
	"time"

	"github.com/charlesng35/notifyhub/internal/monitoring"
)

const defaultRedisTimeout = 2 * time.Second

// Pinger is satisfied by the translation cache client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TranslationCache probes the redis-backed translation cache. The cache is optional:
// a disabled cache reports up, and an unreachable one only degrades readiness since
// listings fall back to the store.
func TranslationCache(client Pinger, enabled bool, timeout time.Duration) monitoring.Check {
	return monitoring.NewCheck("translation_cache", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if !enabled {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusUp,
				Details:  "cache disabled",
				Duration: time.Since(start),
			}
		}
		if client == nil {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDegraded,
				Details:  "cache unavailable",
				Duration: time.Since(start),
			}
		}

		probeCtx, cancel := context.WithTimeout(ctx, chooseTimeout(timeout, defaultRedisTimeout))
		defer cancel()

		if err := client.Ping(probeCtx); err != nil {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDegraded,
				Details:  err.Error(),
				Duration: time.Since(start),
			}
		}
		return monitoring.ProbeResult{Status: monitoring.StatusUp, Duration: time.Since(start)}
	})
}
