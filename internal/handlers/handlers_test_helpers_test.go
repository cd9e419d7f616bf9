package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/notifyhub/internal/database/testutil"
	"github.com/charlesng35/notifyhub/internal/models"
	"github.com/charlesng35/notifyhub/internal/realtime"
	"github.com/charlesng35/notifyhub/internal/services"
	"github.com/charlesng35/notifyhub/pkg/response"
)

type env struct {
	t        *testing.T
	db       *gorm.DB
	router   *gin.Engine
	hub      *realtime.Hub
	security models.NotificationCategory
	welcome  models.NotificationTemplate
}

func newEnv(t *testing.T, withHub bool) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	e := &env{t: t, db: db}

	e.security = models.NotificationCategory{Name: "security", Title: "Security"}
	require.NoError(t, db.Create(&e.security).Error)
	e.welcome = models.NotificationTemplate{CategoryID: e.security.ID, Name: "welcome", Text: "Welcome to {1}!"}
	require.NoError(t, db.Create(&e.welcome).Error)

	resolver, err := services.NewTranslationResolver(db)
	require.NoError(t, err)
	users, err := services.NewUserDirectory(db)
	require.NoError(t, err)

	var broadcaster services.Broadcaster
	if withHub {
		e.hub = realtime.NewHub()
		broadcaster = e.hub
	}
	notificationSvc, err := services.NewNotificationService(db, resolver, broadcaster)
	require.NoError(t, err)
	preferenceSvc, err := services.NewPreferenceService(db)
	require.NoError(t, err)

	notificationHandler, err := NewNotificationHandler(notificationSvc, users, e.hub)
	require.NoError(t, err)
	settingsHandler, err := NewSettingsHandler(preferenceSvc)
	require.NoError(t, err)

	r := gin.New()
	user := r.Group("/users/:user_id")
	user.GET("/notifications/", notificationHandler.List)
	user.POST("/notifications/", notificationHandler.Create)
	user.GET("/notifications/stream", notificationHandler.Stream)
	user.PUT("/notifications/:notification_id/status/", notificationHandler.UpdateStatus)
	user.GET("/notification-settings/", settingsHandler.List)
	user.POST("/notification-settings/", settingsHandler.Upsert)
	e.router = r
	return e
}

func (e *env) user(email string) models.User {
	e.t.Helper()
	user := models.User{Email: email, LanguageID: models.DefaultLanguageID}
	require.NoError(e.t, e.db.Create(&user).Error)
	return user
}

func (e *env) do(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func notificationsPath(userID uint) string {
	return fmt.Sprintf("/users/%d/notifications/", userID)
}

func statusPath(userID, notificationID uint) string {
	return fmt.Sprintf("/users/%d/notifications/%d/status/", userID, notificationID)
}

func settingsPath(userID uint) string {
	return fmt.Sprintf("/users/%d/notification-settings/", userID)
}

// decode unpacks the response envelope, decoding data into dest when provided.
func decode(t *testing.T, rec *httptest.ResponseRecorder, dest any) response.Response {
	t.Helper()

	var envelope struct {
		response.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	if dest != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, dest))
	}
	return envelope.Response
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) *response.ErrorInfo {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	payload := decode(t, rec, nil)
	require.False(t, payload.Success)
	require.NotNil(t, payload.Error)
	require.Equal(t, code, payload.Error.Code)
	return payload.Error
}
