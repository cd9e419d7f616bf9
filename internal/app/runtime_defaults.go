package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	defaultTranslationTTL = 5 * time.Minute
	defaultBacklogSpec    = "@every 1m"
	defaultMetricsPath    = "/metrics"
)

// ApplyRuntimeDefaults repairs settings that were explicitly blanked or zeroed (for example via
// environment overrides) and rejects values the service cannot start with. It returns the keys
// that were reset so callers can log them.
func ApplyRuntimeDefaults(cfg *Config) (map[string]bool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	adjusted := make(map[string]bool)

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("server.port must be between 1 and 65535 (current: %d)", cfg.Server.Port)
	}

	if cfg.Cache.TranslationTTL <= 0 {
		cfg.Cache.TranslationTTL = defaultTranslationTTL
		adjusted["cache.translation_ttl"] = true
	}

	endpoint := strings.TrimSpace(cfg.Monitoring.Prometheus.Endpoint)
	switch {
	case endpoint == "":
		cfg.Monitoring.Prometheus.Endpoint = defaultMetricsPath
		adjusted["monitoring.prometheus.endpoint"] = true
	case !strings.HasPrefix(endpoint, "/"):
		cfg.Monitoring.Prometheus.Endpoint = "/" + endpoint
		adjusted["monitoring.prometheus.endpoint"] = true
	}

	if cfg.Features.BacklogReport.Enabled {
		spec := strings.TrimSpace(cfg.Features.BacklogReport.Schedule)
		if spec == "" {
			cfg.Features.BacklogReport.Schedule = defaultBacklogSpec
			adjusted["features.backlog_report.schedule"] = true
		} else if _, err := cron.ParseStandard(spec); err != nil {
			return nil, fmt.Errorf("features.backlog_report.schedule %q: %w", spec, err)
		}
	}

	if cfg.Cache.Redis.Enabled && strings.TrimSpace(cfg.Cache.Redis.Address) == "" {
		return nil, fmt.Errorf("cache.redis.address must be set when redis is enabled")
	}

	return adjusted, nil
}
