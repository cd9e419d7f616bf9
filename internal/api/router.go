package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/charlesng35/notifyhub/internal/app"
	"github.com/charlesng35/notifyhub/internal/handlers"
	"github.com/charlesng35/notifyhub/internal/middleware"
	"github.com/charlesng35/notifyhub/internal/monitoring"
	"github.com/charlesng35/notifyhub/internal/realtime"
	"github.com/charlesng35/notifyhub/internal/services"
)

// Dependencies bundles the runtime components routes are served from.
type Dependencies struct {
	Notifications *services.NotificationService
	Preferences   *services.PreferenceService
	Users         *services.UserDirectory
	// Hub is nil when realtime delivery is disabled.
	Hub *realtime.Hub
	// Health is nil when health probes are disabled.
	Health *monitoring.HealthManager
}

// NewRouter builds the Gin engine, wires middleware and registers routes.
func NewRouter(cfg *app.Config, deps Dependencies) (*gin.Engine, error) {
	if cfg == nil {
		return nil, errors.New("config must be provided")
	}

	notificationHandler, err := handlers.NewNotificationHandler(deps.Notifications, deps.Users, deps.Hub)
	if err != nil {
		return nil, err
	}
	settingsHandler, err := handlers.NewSettingsHandler(deps.Preferences)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	registerHealthRoutes(r, cfg, deps.Health)
	registerNotificationRoutes(r, notificationHandler, settingsHandler)

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := strings.TrimSpace(cfg.Monitoring.Prometheus.Endpoint)
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
