package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/notifyhub/internal/app"
	"github.com/charlesng35/notifyhub/internal/models"
)

func testConfig(t *testing.T) *app.Config {
	t.Helper()

	cfg := &app.Config{}
	cfg.Server.Port = 8000
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	cfg.Monitoring.Health.Enabled = true
	cfg.Monitoring.Health.Timeout = time.Second
	cfg.Monitoring.Prometheus.Enabled = true
	cfg.Features.Realtime.Enabled = true
	cfg.Features.BacklogReport.Enabled = true
	cfg.Features.BacklogReport.Schedule = "@every 1m"
	return cfg
}

func readiness(t *testing.T, rt *runtime) (int, map[string]string) {
	t.Helper()

	w := httptest.NewRecorder()
	rt.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	var payload struct {
		Checks []struct {
			Component string `json:"component"`
			Status    string `json:"status"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))

	statuses := make(map[string]string, len(payload.Checks))
	for _, check := range payload.Checks {
		statuses[check.Component] = check.Status
	}
	return w.Code, statuses
}

func TestBuildRuntimeWithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := testConfig(t)
	cfg.Cache.Redis.Enabled = true
	cfg.Cache.Redis.Address = mr.Addr()
	cfg.Cache.TranslationTTL = time.Minute
	_, err = app.ApplyRuntimeDefaults(cfg)
	require.NoError(t, err)

	rt, err := buildRuntime(cfg)
	require.NoError(t, err)
	require.NotNil(t, rt.redis)
	require.NotNil(t, rt.hub)
	require.NoError(t, rt.start(context.Background()))
	t.Cleanup(func() { require.NoError(t, rt.close(context.Background())) })

	code, statuses := readiness(t, rt)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "up", statuses["database"])
	require.Equal(t, "up", statuses["translation_cache"])

	var english models.Language
	require.NoError(t, rt.db.First(&english, models.DefaultLanguageID).Error)
	category := models.NotificationCategory{Name: "account", Title: "Account"}
	require.NoError(t, rt.db.Create(&category).Error)
	tmpl := models.NotificationTemplate{CategoryID: category.ID, Name: "hello", Text: "Hello {1}"}
	require.NoError(t, rt.db.Create(&tmpl).Error)
	user := models.User{Email: "boot@example.com"}
	require.NoError(t, rt.db.Create(&user).Error)

	body, err := json.Marshal(map[string]any{
		"notification_template_id": tmpl.ID,
		"notification_type":        1,
		"options":                  []map[string]any{{"field_id": 1, "txt": "Grace"}},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/users/%d/notifications/", user.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rt.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "Hello Grace")

	// The rendered listing populates the translation cache.
	w = httptest.NewRecorder()
	rt.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d/notifications/", user.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, mr.Exists(fmt.Sprintf("notify:translation:%d:%d", tmpl.ID, english.ID)))
}

func TestBuildRuntimeSurvivesRedisOutage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.Cache.Redis.Enabled = true
	cfg.Cache.Redis.Address = addr
	cfg.Cache.Redis.Timeout = 200 * time.Millisecond

	rt, err := buildRuntime(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, rt.close(context.Background())) })
	require.Nil(t, rt.redis)

	code, statuses := readiness(t, rt)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "degraded", statuses["translation_cache"])
}

func TestBuildRuntimeWithoutOptionalFeatures(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Realtime.Enabled = false
	cfg.Features.BacklogReport.Enabled = false
	cfg.Monitoring.Health.Enabled = false

	rt, err := buildRuntime(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, rt.close(context.Background())) })

	require.Nil(t, rt.hub)
	require.Nil(t, rt.backlog)
	require.NoError(t, rt.start(context.Background()))

	w := httptest.NewRecorder()
	rt.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuildRuntimeRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"

	rt, err := buildRuntime(cfg)
	require.Error(t, err)
	require.Nil(t, rt)
}

func TestLoadApplicationConfig(t *testing.T) {
	_, err := loadApplicationConfig(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  port: 9191\n"), 0o600))

	cfg, err := loadApplicationConfig(file)
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)

	cfg, err = loadApplicationConfig(dir)
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)
}
