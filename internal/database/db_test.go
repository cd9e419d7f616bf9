package database

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/notifyhub/internal/models"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Exec("SELECT 1").Error)
}

func TestOpenSQLiteFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "notify.db")

	db, err := Open(Config{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec("SELECT 1").Error)
	require.FileExists(t, path)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpenPostgresRequiresCredentials(t *testing.T) {
	_, err := Open(Config{Driver: "postgres"})
	require.Error(t, err)
}

func TestAutoMigrateAndSeedData(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, AutoMigrateAndSeed(db))
	// Seeding twice must not duplicate the default language.
	require.NoError(t, SeedData(db))

	var languages []models.Language
	require.NoError(t, db.Find(&languages).Error)
	require.Len(t, languages, 1)
	require.Equal(t, models.DefaultLanguageID, languages[0].ID)
	require.Equal(t, "en", languages[0].Name)
}

func TestAutoMigrateCreatesNotificationTables(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	migrator := db.Migrator()
	tables := []any{
		&models.Language{},
		&models.User{},
		&models.NotificationCategory{},
		&models.NotificationTemplate{},
		&models.Translation{},
		&models.UserNotification{},
		&models.NotificationOption{},
		&models.UserNotificationSetting{},
	}
	for _, table := range tables {
		require.True(t, migrator.HasTable(table), "expected table for %T to exist", table)
	}
	require.True(t, migrator.HasIndex(&models.UserNotificationSetting{}, "idx_setting_user_category"))
	require.True(t, migrator.HasIndex(&models.Translation{}, "idx_translation_owner_field_lang"))
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString()),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
