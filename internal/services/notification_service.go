package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/notifyhub/internal/models"
	"github.com/charlesng35/notifyhub/internal/notify"
	"github.com/charlesng35/notifyhub/internal/realtime"
	apperrors "github.com/charlesng35/notifyhub/pkg/errors"
	"github.com/charlesng35/notifyhub/pkg/logger"
	"github.com/charlesng35/notifyhub/pkg/metrics"
)

// MaxOptionTextLength bounds a single option value, in characters.
const MaxOptionTextLength = 32

// TemplateSummary is the template part of a listed notification.
type TemplateSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Category string `json:"notification_category"`
	Text     string `json:"txt"`
}

// NotificationItem is the API view of a notification with its display text rendered.
// Option values are write-only and never part of the view.
type NotificationItem struct {
	ID       uint            `json:"id"`
	UserID   uint            `json:"user"`
	Template TemplateSummary `json:"notification_template"`
	Text     string          `json:"txt"`
	Channel  models.Channel  `json:"notification_type"`
	Status   models.Status   `json:"status"`
	Created  time.Time       `json:"created"`
}

// ListFilter narrows listPending. Nil fields keep the default behaviour: unseen only, any
// channel, any category.
type ListFilter struct {
	Status     *models.Status
	Channel    *models.Channel
	Categories []uint
}

// OptionInput is one ordered value supplied when issuing a notification.
type OptionInput struct {
	FieldID int16
	Text    string
}

// CreateNotificationInput defines attributes required to issue a notification.
type CreateNotificationInput struct {
	TemplateID uint
	Channel    models.Channel
	Options    []OptionInput
}

// Broadcaster publishes realtime events to a user's open connections.
type Broadcaster interface {
	BroadcastToUser(userID uint, message realtime.Message) int
}

// NotificationService issues, lists and acknowledges user notifications.
type NotificationService struct {
	db           *gorm.DB
	translations *TranslationResolver
	hub          Broadcaster
	log          *zap.Logger
}

// NewNotificationService constructs a NotificationService. hub may be nil to disable realtime fan-out.
func NewNotificationService(db *gorm.DB, translations *TranslationResolver, hub Broadcaster) (*NotificationService, error) {
	if db == nil {
		return nil, errors.New("notification service: db is required")
	}
	if translations == nil {
		return nil, errors.New("notification service: translation resolver is required")
	}
	return &NotificationService{
		db:           db,
		translations: translations,
		hub:          hub,
		log:          logger.WithModule("notifications"),
	}, nil
}

// ListPending returns the user's notifications that survive the filter and the user's
// channel preferences, rendered in the user's language, newest first.
func (s *NotificationService) ListPending(ctx context.Context, userID uint, filter ListFilter) ([]NotificationItem, error) {
	ctx = ensureContext(ctx)

	languageID, err := languageFor(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	status := models.StatusUnseen
	if filter.Status != nil {
		if !filter.Status.Valid() {
			return nil, apperrors.NewBadRequest("invalid status filter").WithField("status", "Select a valid choice.")
		}
		status = *filter.Status
	}
	if filter.Channel != nil && !filter.Channel.Valid() {
		return nil, apperrors.NewBadRequest("invalid notification type filter").WithField("notification_type", "Select a valid choice.")
	}
	categories := uniqueIDs(filter.Categories)
	if err := s.ensureCategoriesExist(ctx, categories); err != nil {
		return nil, err
	}

	disallowed, err := s.disallowed(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Model(&models.UserNotification{}).
		Select("user_notification.*").
		Joins("JOIN notification_template ON notification_template.id = user_notification.notification_template_id").
		Where("user_notification.user_id = ? AND user_notification.status = ?", userID, status)

	if filter.Channel != nil {
		query = query.Where("user_notification.notification_type = ?", *filter.Channel)
	}
	if len(categories) > 0 {
		query = query.Where("notification_template.notification_category_id IN ?", categories)
	}
	query = excludeDisallowed(query, disallowed)

	var rows []models.UserNotification
	if err := query.
		Preload("Template.Category").
		Preload("Options", orderedOptions).
		Order("user_notification.created DESC").
		Order("user_notification.id DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("notification service: list notifications: %w", err)
	}

	items := s.render(ctx, languageID, rows)
	metrics.NotificationsListed.Add(float64(len(items)))
	return items, nil
}

// Create issues a notification and its ordered options in one transaction. Preferences are
// not consulted when storing; they only decide visibility and realtime fan-out.
func (s *NotificationService) Create(ctx context.Context, userID uint, input CreateNotificationInput) (*NotificationItem, error) {
	ctx = ensureContext(ctx)

	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	notification := models.UserNotification{
		UserID:     userID,
		TemplateID: input.TemplateID,
		Channel:    input.Channel,
		Status:     models.StatusUnseen,
		Options:    make([]models.NotificationOption, 0, len(input.Options)),
	}
	for i, opt := range input.Options {
		notification.Options = append(notification.Options, models.NotificationOption{
			Position: i,
			FieldID:  opt.FieldID,
			Text:     opt.Text,
		})
	}

	var languageID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if languageID, err = languageFor(ctx, tx, userID); err != nil {
			return err
		}

		var template models.NotificationTemplate
		if err := tx.Preload("Category").Take(&template, "id = ?", input.TemplateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalidPK("notification_template_id")
			}
			return fmt.Errorf("notification service: load template: %w", err)
		}

		if err := tx.Create(&notification).Error; err != nil {
			return fmt.Errorf("notification service: create notification: %w", err)
		}
		notification.Template = &template
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.NotificationsCreated.WithLabelValues(notification.Channel.String()).Inc()

	item := s.render(ctx, languageID, []models.UserNotification{notification})[0]
	s.publish(ctx, notification, item)
	return &item, nil
}

// MarkStatus sets the status of one of the user's notifications. Writing the current status
// again succeeds without change; a seen notification cannot become unseen.
func (s *NotificationService) MarkStatus(ctx context.Context, userID, notificationID uint, status models.Status) (*NotificationItem, error) {
	ctx = ensureContext(ctx)

	if !status.Valid() {
		return nil, apperrors.NewBadRequest("invalid status").WithField("status", fmt.Sprintf("\"%d\" is not a valid choice.", status))
	}

	languageID, err := languageFor(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	var notification models.UserNotification
	if err := s.db.WithContext(ctx).
		Preload("Template.Category").
		Preload("Options", orderedOptions).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Take(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("notification service: load notification: %w", err)
	}

	switch {
	case notification.Status == status:
	case notification.Status == models.StatusSeen && status == models.StatusUnseen:
		return nil, ErrStatusRegression
	default:
		// Guard on the previous status so a concurrent writer cannot be overwritten backwards.
		result := s.db.WithContext(ctx).
			Model(&models.UserNotification{}).
			Where("id = ? AND status = ?", notification.ID, notification.Status).
			Update("status", status)
		if result.Error != nil {
			return nil, fmt.Errorf("notification service: update status: %w", result.Error)
		}
		notification.Status = status
	}

	metrics.StatusUpdates.WithLabelValues(status.String()).Inc()
	item := s.render(ctx, languageID, []models.UserNotification{notification})[0]
	return &item, nil
}

// UnseenBacklog counts unseen notifications per channel across all users.
func (s *NotificationService) UnseenBacklog(ctx context.Context) (map[models.Channel]int64, error) {
	ctx = ensureContext(ctx)

	var rows []struct {
		Channel models.Channel `gorm:"column:notification_type"`
		Total   int64          `gorm:"column:total"`
	}
	if err := s.db.WithContext(ctx).
		Model(&models.UserNotification{}).
		Select("notification_type, COUNT(*) AS total").
		Where("status = ?", models.StatusUnseen).
		Group("notification_type").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("notification service: count backlog: %w", err)
	}

	backlog := map[models.Channel]int64{
		models.ChannelSystem: 0,
		models.ChannelPush:   0,
	}
	for _, row := range rows {
		backlog[row.Channel] = row.Total
	}
	return backlog, nil
}

func (s *NotificationService) ensureCategoriesExist(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.NotificationCategory{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return fmt.Errorf("notification service: check categories: %w", err)
	}
	if int(count) != len(ids) {
		return apperrors.NewBadRequest("unknown notification category").
			WithField("notification_category", "Select a valid choice.")
	}
	return nil
}

func (s *NotificationService) disallowed(ctx context.Context, db *gorm.DB, userID uint) (notify.Disallowed, error) {
	var settings []models.UserNotificationSetting
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("system_notification = ? OR push_notification = ?", false, false).
		Find(&settings).Error; err != nil {
		return notify.Disallowed{}, fmt.Errorf("notification service: load preferences: %w", err)
	}
	return notify.DisallowedFromSettings(settings), nil
}

// excludeDisallowed removes rows matching either disallow-list. The lists are evaluated
// independently so a push opt-out never hides system notifications of the same category.
func excludeDisallowed(query *gorm.DB, d notify.Disallowed) *gorm.DB {
	if ids := d.SystemIDs(); len(ids) > 0 {
		query = query.Where("NOT (user_notification.notification_type = ? AND notification_template.notification_category_id IN ?)",
			models.ChannelSystem, ids)
	}
	if ids := d.PushIDs(); len(ids) > 0 {
		query = query.Where("NOT (user_notification.notification_type = ? AND notification_template.notification_category_id IN ?)",
			models.ChannelPush, ids)
	}
	return query
}

func (s *NotificationService) render(ctx context.Context, languageID uint, rows []models.UserNotification) []NotificationItem {
	templateIDs := make([]uint, 0, len(rows))
	for _, row := range rows {
		templateIDs = append(templateIDs, row.TemplateID)
	}
	catalog := s.translations.Catalog(ctx, languageID, templateIDs)

	items := make([]NotificationItem, 0, len(rows))
	for _, row := range rows {
		item := NotificationItem{
			ID:      row.ID,
			UserID:  row.UserID,
			Channel: row.Channel,
			Status:  row.Status,
			Created: row.CreatedAt,
		}
		if row.Template != nil {
			text := catalog.Resolve(*row.Template)
			item.Template = TemplateSummary{
				ID:   row.Template.ID,
				Name: row.Template.Name,
				Text: text,
			}
			if row.Template.Category != nil {
				item.Template.Category = row.Template.Category.Title
			}
			item.Text = notify.Render(text, row.OptionValues())
		}
		items = append(items, item)
	}
	return items
}

func (s *NotificationService) publish(ctx context.Context, notification models.UserNotification, item NotificationItem) {
	if s.hub == nil || notification.Channel != models.ChannelSystem {
		return
	}

	disallowed, err := s.disallowed(ctx, s.db, notification.UserID)
	if err != nil {
		s.log.Warn("skipping realtime delivery", zap.Uint("notification_id", notification.ID), zap.Error(err))
		return
	}
	if len(notify.FilterByPreference([]models.UserNotification{notification}, disallowed)) == 0 {
		metrics.NotificationsSuppressed.WithLabelValues(notification.Channel.String()).Inc()
		return
	}

	s.hub.BroadcastToUser(notification.UserID, realtime.Message{
		Event: realtime.EventNotificationCreated,
		Data:  item,
	})
}

func validateCreateInput(input CreateNotificationInput) error {
	if input.TemplateID == 0 {
		return apperrors.NewRequiredField("notification_template_id")
	}
	if !input.Channel.Valid() {
		return apperrors.NewBadRequest("invalid notification type").
			WithField("notification_type", fmt.Sprintf("\"%d\" is not a valid choice.", input.Channel))
	}
	for _, opt := range input.Options {
		if utf8.RuneCountInString(opt.Text) > MaxOptionTextLength {
			return apperrors.ErrValidation.WithField("options",
				fmt.Sprintf("Ensure option txt has no more than %d characters.", MaxOptionTextLength))
		}
	}
	return nil
}

func orderedOptions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}
