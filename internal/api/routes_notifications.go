package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/notifyhub/internal/handlers"
)

func registerNotificationRoutes(r gin.IRouter, notifications *handlers.NotificationHandler, settings *handlers.SettingsHandler) {
	user := r.Group("/users/:user_id")
	{
		user.GET("/notifications/", notifications.List)
		user.POST("/notifications/", notifications.Create)
		user.GET("/notifications/stream", notifications.Stream)
		user.PUT("/notifications/:notification_id/status/", notifications.UpdateStatus)

		user.GET("/notification-settings/", settings.List)
		user.POST("/notification-settings/", settings.Upsert)
	}
}
