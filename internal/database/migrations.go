package database

import (
	"gorm.io/gorm"

	"github.com/charlesng35/notifyhub/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := renameLegacyColumns(db); err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.Language{},
		&models.User{},
		&models.NotificationCategory{},
		&models.NotificationTemplate{},
		&models.Translation{},
		&models.UserNotification{},
		&models.NotificationOption{},
		&models.UserNotificationSetting{},
	)
}

// SeedData ensures the default language exists so users without an explicit
// language resolve to it.
func SeedData(db *gorm.DB) error {
	english := models.Language{
		ID:    models.DefaultLanguageID,
		Name:  "en",
		Title: "English",
	}
	return db.Where(models.Language{ID: english.ID}).Attrs(english).FirstOrCreate(&models.Language{}).Error
}
