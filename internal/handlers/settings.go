package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/notifyhub/internal/services"
	appErrors "github.com/charlesng35/notifyhub/pkg/errors"
	"github.com/charlesng35/notifyhub/pkg/response"
)

// SettingsHandler exposes a user's per-category channel preferences.
type SettingsHandler struct {
	service *services.PreferenceService
}

// NewSettingsHandler constructs a settings handler.
func NewSettingsHandler(service *services.PreferenceService) (*SettingsHandler, error) {
	if service == nil {
		return nil, errors.New("settings handler: preference service is required")
	}
	return &SettingsHandler{service: service}, nil
}

// Older clients send the category under notification_template_id.
type settingsPayload struct {
	Category       *intField  `json:"notification_template"`
	LegacyCategory *intField  `json:"notification_template_id"`
	System         *flagField `json:"system_notification"`
	Push           *flagField `json:"push_notification"`
}

func (p settingsPayload) input() (services.SetPreferenceInput, error) {
	category := p.Category
	if category == nil {
		category = p.LegacyCategory
	}

	var missing *appErrors.AppError
	need := func(present bool, field string) {
		if present {
			return
		}
		if missing == nil {
			missing = appErrors.NewBadRequest("missing preference values")
		}
		missing = missing.WithField(field, "This field is required.")
	}
	need(category != nil, "notification_template")
	need(p.System != nil, "system_notification")
	need(p.Push != nil, "push_notification")
	if missing != nil {
		return services.SetPreferenceInput{}, missing
	}

	if category.id() == 0 {
		return services.SetPreferenceInput{}, appErrors.NewBadRequest("invalid notification_template").
			WithField("notification_template", "Invalid pk - object does not exist.")
	}

	return services.SetPreferenceInput{
		CategoryID: category.id(),
		System:     bool(*p.System),
		Push:       bool(*p.Push),
	}, nil
}

// Upsert stores both channel flags for one category, answering 201 when the row is new.
func (h *SettingsHandler) Upsert(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var payload settingsPayload
	if !bindAndValidate(c, &payload) {
		return
	}
	input, err := payload.input()
	if err != nil {
		response.Error(c, err)
		return
	}

	setting, created, err := h.service.Upsert(requestContext(c), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, setting)
}

// List returns the user's stored preference rows.
func (h *SettingsHandler) List(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	settings, err := h.service.List(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, settings)
}
