package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/notifyhub/internal/models"
	"github.com/charlesng35/notifyhub/internal/realtime"
	"github.com/charlesng35/notifyhub/internal/services"
	appErrors "github.com/charlesng35/notifyhub/pkg/errors"
	"github.com/charlesng35/notifyhub/pkg/response"
)

// NotificationHandler exposes HTTP endpoints for a user's notifications.
type NotificationHandler struct {
	service *services.NotificationService
	users   *services.UserDirectory
	hub     *realtime.Hub
}

// NewNotificationHandler constructs a notification handler. hub may be nil when realtime
// delivery is disabled.
func NewNotificationHandler(service *services.NotificationService, users *services.UserDirectory, hub *realtime.Hub) (*NotificationHandler, error) {
	if service == nil {
		return nil, errors.New("notification handler: service is required")
	}
	if users == nil {
		return nil, errors.New("notification handler: user directory is required")
	}
	return &NotificationHandler{service: service, users: users, hub: hub}, nil
}

type optionPayload struct {
	FieldID *intField `json:"field_id" validate:"required,min=-32768,max=32767"`
	Text    *string   `json:"txt" validate:"required"`
}

type createNotificationPayload struct {
	TemplateID *intField       `json:"notification_template_id" validate:"required"`
	Channel    *intField       `json:"notification_type" validate:"required,channel"`
	Options    []optionPayload `json:"options" validate:"required,dive"`
}

type statusPayload struct {
	Status *intField `json:"status" validate:"required,seen_status"`
}

// List returns the user's pending notifications, rendered in the user's language.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	filter, err := parseListFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.service.ListPending(requestContext(c), userID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}

// Create issues a notification with its ordered options.
func (h *NotificationHandler) Create(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var payload createNotificationPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	input := services.CreateNotificationInput{
		TemplateID: payload.TemplateID.id(),
		Channel:    payload.Channel.channel(),
		Options:    make([]services.OptionInput, 0, len(payload.Options)),
	}
	for _, opt := range payload.Options {
		input.Options = append(input.Options, services.OptionInput{
			FieldID: opt.FieldID.small(),
			Text:    *opt.Text,
		})
	}

	item, err := h.service.Create(requestContext(c), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, item)
}

// UpdateStatus marks one notification seen (or re-confirms its current status).
func (h *NotificationHandler) UpdateStatus(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	notificationID, ok := notificationIDParam(c)
	if !ok {
		return
	}

	var payload statusPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	item, err := h.service.MarkStatus(requestContext(c), userID, notificationID, payload.Status.status())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, item)
}

// Stream upgrades the connection to a WebSocket carrying the user's in-app events.
func (h *NotificationHandler) Stream(c *gin.Context) {
	if h.hub == nil {
		response.Error(c, appErrors.NewNotFound("notification stream"))
		return
	}

	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := h.users.Exists(requestContext(c), userID); err != nil {
		response.Error(c, err)
		return
	}

	h.hub.Serve(userID, c.Writer, c.Request)
}

func parseListFilter(c *gin.Context) (services.ListFilter, error) {
	var filter services.ListFilter

	if raw, ok := c.GetQuery("status"); ok {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return filter, invalidChoice("status", raw)
		}
		filter.Status = &status
	}

	if raw, ok := c.GetQuery("notification_type"); ok {
		channel, err := models.ParseChannel(raw)
		if err != nil {
			return filter, invalidChoice("notification_type", raw)
		}
		filter.Channel = &channel
	}

	for _, value := range c.QueryArray("notification_category") {
		for _, raw := range strings.Split(value, ",") {
			id, ok := parseID(raw)
			if !ok {
				return filter, invalidChoice("notification_category", raw)
			}
			filter.Categories = append(filter.Categories, id)
		}
	}

	return filter, nil
}
