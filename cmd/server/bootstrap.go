package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/notifyhub/internal/api"
	"github.com/charlesng35/notifyhub/internal/app"
	"github.com/charlesng35/notifyhub/internal/app/maintenance"
	"github.com/charlesng35/notifyhub/internal/cache"
	"github.com/charlesng35/notifyhub/internal/database"
	"github.com/charlesng35/notifyhub/internal/monitoring"
	"github.com/charlesng35/notifyhub/internal/monitoring/checks"
	"github.com/charlesng35/notifyhub/internal/realtime"
	"github.com/charlesng35/notifyhub/internal/services"
	"github.com/charlesng35/notifyhub/pkg/logger"
)

// runtime owns every long-lived component of the server process.
type runtime struct {
	cfg     *app.Config
	db      *gorm.DB
	redis   *cache.RedisClient
	hub     *realtime.Hub
	backlog *maintenance.BacklogReporter
	router  *gin.Engine
	log     *zap.Logger
}

func buildRuntime(cfg *app.Config) (rt *runtime, err error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	rt = &runtime{cfg: cfg, log: logger.WithModule("bootstrap")}
	defer func() {
		if err != nil {
			err = multierr.Append(err, rt.close(context.Background()))
			rt = nil
		}
	}()

	if rt.db, err = initialiseDatabase(cfg); err != nil {
		return rt, err
	}

	var resolverOpts []services.ResolverOption
	if cfg.Cache.Redis.Enabled {
		client, redisErr := cache.NewRedisClient(cfg.Cache.RedisClientConfig())
		if redisErr != nil {
			rt.log.Warn("redis unavailable; translations are served from the database", zap.Error(redisErr))
		} else {
			rt.redis = client
			resolverOpts = append(resolverOpts, services.WithTranslationCache(client, cfg.Cache.TranslationTTL))
			rt.log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
		}
	}

	resolver, err := services.NewTranslationResolver(rt.db, resolverOpts...)
	if err != nil {
		return rt, fmt.Errorf("initialise translation resolver: %w", err)
	}

	var broadcaster services.Broadcaster
	if cfg.Features.Realtime.Enabled {
		rt.hub = realtime.NewHub()
		broadcaster = rt.hub
	}

	notifications, err := services.NewNotificationService(rt.db, resolver, broadcaster)
	if err != nil {
		return rt, fmt.Errorf("initialise notification service: %w", err)
	}
	preferences, err := services.NewPreferenceService(rt.db)
	if err != nil {
		return rt, fmt.Errorf("initialise preference service: %w", err)
	}
	users, err := services.NewUserDirectory(rt.db)
	if err != nil {
		return rt, fmt.Errorf("initialise user directory: %w", err)
	}

	if cfg.Features.BacklogReport.Enabled {
		rt.backlog, err = maintenance.NewBacklogReporter(notifications,
			maintenance.WithSchedule(cfg.Features.BacklogReport.Schedule))
		if err != nil {
			return rt, fmt.Errorf("initialise backlog reporter: %w", err)
		}
	}

	deps := api.Dependencies{
		Notifications: notifications,
		Preferences:   preferences,
		Users:         users,
		Hub:           rt.hub,
	}
	if cfg.Monitoring.Health.Enabled {
		deps.Health = rt.healthManager()
	}

	if rt.router, err = api.NewRouter(cfg, deps); err != nil {
		return rt, fmt.Errorf("build api router: %w", err)
	}
	return rt, nil
}

func (rt *runtime) healthManager() *monitoring.HealthManager {
	timeout := rt.cfg.Monitoring.Health.Timeout
	manager := monitoring.NewHealthManager(timeout)
	manager.RegisterLiveness(monitoring.NewCheck("process", func(context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: monitoring.StatusUp}
	}))
	manager.RegisterReadiness(checks.Database(rt.db, timeout))

	var pinger checks.Pinger
	if rt.redis != nil {
		pinger = rt.redis
	}
	manager.RegisterReadiness(checks.TranslationCache(pinger, rt.cfg.Cache.Redis.Enabled, timeout))
	return manager
}

// start launches background jobs.
func (rt *runtime) start(ctx context.Context) error {
	if rt.backlog == nil {
		return nil
	}
	if err := rt.backlog.Start(); err != nil {
		return fmt.Errorf("start backlog reporter: %w", err)
	}
	if err := rt.backlog.RunOnce(ctx); err != nil {
		rt.log.Warn("initial backlog report failed", zap.Error(err))
	}
	return nil
}

// close stops background jobs and releases connections, collecting every failure.
func (rt *runtime) close(ctx context.Context) error {
	var errs error
	if rt.backlog != nil {
		select {
		case <-rt.backlog.Stop().Done():
		case <-ctx.Done():
			errs = multierr.Append(errs, fmt.Errorf("stop backlog reporter: %w", ctx.Err()))
		}
	}
	if rt.redis != nil {
		if err := rt.redis.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if rt.db != nil {
		if err := closeDatabase(rt.db); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func loadApplicationConfig(path string) (*app.Config, error) {
	if strings.TrimSpace(path) == "" {
		return app.LoadConfig()
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return app.LoadConfig(path)
	case err == nil:
		return app.LoadConfig(filepath.Dir(path))
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("config path %q does not exist", path)
	default:
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.ConnectionConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		return nil, multierr.Append(fmt.Errorf("auto-migrate database: %w", err), closeDatabase(db))
	}

	logger.WithModule("database").Info("database connected", zap.String("driver", dbCfg.Driver))
	return db, nil
}

func closeDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("obtain sql handle: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
