package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/charlesng35/notifyhub/internal/models"
)

// UserDirectory answers the two questions the notification core asks about users:
// whether they exist and which language they read.
type UserDirectory struct {
	db *gorm.DB
}

// NewUserDirectory constructs a UserDirectory.
func NewUserDirectory(db *gorm.DB) (*UserDirectory, error) {
	if db == nil {
		return nil, errors.New("user directory: db is required")
	}
	return &UserDirectory{db: db}, nil
}

// LanguageFor returns the user's language id, or the default language when none is set.
func (d *UserDirectory) LanguageFor(ctx context.Context, userID uint) (uint, error) {
	return languageFor(ensureContext(ctx), d.db, userID)
}

// Exists returns ErrUserNotFound unless the user is present.
func (d *UserDirectory) Exists(ctx context.Context, userID uint) error {
	_, err := languageFor(ensureContext(ctx), d.db, userID)
	return err
}

func languageFor(ctx context.Context, db *gorm.DB, userID uint) (uint, error) {
	if userID == 0 {
		return 0, ErrUserNotFound
	}

	var user models.User
	err := db.WithContext(ctx).
		Select("id", "language_id").
		Where("id = ?", userID).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("user directory: load user: %w", err)
	}

	if user.LanguageID == 0 {
		return models.DefaultLanguageID, nil
	}
	return user.LanguageID, nil
}
