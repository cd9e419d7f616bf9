package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/notifyhub/internal/services"
	appErrors "github.com/charlesng35/notifyhub/pkg/errors"
	"github.com/charlesng35/notifyhub/pkg/response"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// userIDParam reads the :user_id path segment. Non-numeric ids address no user.
func userIDParam(c *gin.Context) (uint, bool) {
	id, ok := parseID(c.Param("user_id"))
	if !ok {
		response.Error(c, services.ErrUserNotFound)
		return 0, false
	}
	return id, true
}

func notificationIDParam(c *gin.Context) (uint, bool) {
	id, ok := parseID(c.Param("notification_id"))
	if !ok {
		response.Error(c, services.ErrNotificationNotFound)
		return 0, false
	}
	return id, true
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func invalidChoice(field, raw string) *appErrors.AppError {
	return appErrors.NewBadRequest("invalid "+field).WithField(field, strconv.Quote(raw)+" is not a valid choice.")
}
