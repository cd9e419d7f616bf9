package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/notifyhub/internal/models"
	"github.com/charlesng35/notifyhub/pkg/metrics"
)

// SetPreferenceInput carries the full flag pair for one category. Both flags are always
// written; there is no partial update.
type SetPreferenceInput struct {
	CategoryID uint
	System     bool
	Push       bool
}

// PreferenceService stores per-category channel opt-outs.
type PreferenceService struct {
	db *gorm.DB
}

// NewPreferenceService constructs a PreferenceService.
func NewPreferenceService(db *gorm.DB) (*PreferenceService, error) {
	if db == nil {
		return nil, errors.New("preference service: db is required")
	}
	return &PreferenceService{db: db}, nil
}

// Upsert writes the user's flags for a category and reports whether a new row was created.
// The write is a single INSERT ... ON CONFLICT on (user, category), so concurrent callers
// converge on one row holding the last written values.
func (s *PreferenceService) Upsert(ctx context.Context, userID uint, input SetPreferenceInput) (*models.UserNotificationSetting, bool, error) {
	ctx = ensureContext(ctx)

	var (
		setting models.UserNotificationSetting
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := languageFor(ctx, tx, userID); err != nil {
			return err
		}

		var categories int64
		if err := tx.Model(&models.NotificationCategory{}).Where("id = ?", input.CategoryID).Count(&categories).Error; err != nil {
			return fmt.Errorf("preference service: load category: %w", err)
		}
		if categories == 0 {
			return invalidPK("notification_template")
		}

		var existing int64
		if err := tx.Model(&models.UserNotificationSetting{}).
			Where("user_id = ? AND notification_category_id = ?", userID, input.CategoryID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("preference service: load setting: %w", err)
		}
		created = existing == 0

		row := models.UserNotificationSetting{
			UserID:             userID,
			CategoryID:         input.CategoryID,
			SystemNotification: input.System,
			PushNotification:   input.Push,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "notification_category_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"system_notification", "push_notification"}),
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("preference service: upsert setting: %w", err)
		}

		return tx.Where("user_id = ? AND notification_category_id = ?", userID, input.CategoryID).
			Take(&setting).Error
	})
	if err != nil {
		return nil, false, err
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}
	metrics.PreferenceUpserts.WithLabelValues(outcome).Inc()
	return &setting, created, nil
}

// List returns the user's stored settings ordered by category.
func (s *PreferenceService) List(ctx context.Context, userID uint) ([]models.UserNotificationSetting, error) {
	ctx = ensureContext(ctx)

	if _, err := languageFor(ctx, s.db, userID); err != nil {
		return nil, err
	}

	var settings []models.UserNotificationSetting
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("notification_category_id ASC").
		Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("preference service: list settings: %w", err)
	}
	return settings, nil
}
