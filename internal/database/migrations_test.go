package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/notifyhub/internal/models"
)

type legacySetting struct {
	ID                     uint `gorm:"primaryKey"`
	UserID                 uint
	NotificationTemplateID uint
	SystemNotification     bool
	PushNotification       bool
}

func (legacySetting) TableName() string { return "user_notification_setting" }

func TestAutoMigrateRenamesLegacySettingColumn(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.AutoMigrate(&legacySetting{}))

	migrator := db.Migrator()
	require.True(t, migrator.HasColumn(&legacySetting{}, "notification_template_id"))

	require.NoError(t, AutoMigrate(db))

	require.False(t, migrator.HasColumn(&models.UserNotificationSetting{}, "notification_template_id"))
	require.True(t, migrator.HasColumn(&models.UserNotificationSetting{}, "notification_category_id"))
}

func TestAutoMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, AutoMigrate(db))
}
