package database

import (
	"gorm.io/gorm"

	"github.com/charlesng35/notifyhub/internal/models"
)

type legacyRename struct {
	model any
	from  string
	to    string
}

// Settings historically stored the category reference under a template-named column.
var legacyRenames = []legacyRename{
	{model: &models.UserNotificationSetting{}, from: "notification_template_id", to: "notification_category_id"},
}

func renameLegacyColumns(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, r := range legacyRenames {
		if !migrator.HasTable(r.model) {
			continue
		}
		if !migrator.HasColumn(r.model, r.from) || migrator.HasColumn(r.model, r.to) {
			continue
		}
		if err := migrator.RenameColumn(r.model, r.from, r.to); err != nil {
			return err
		}
	}
	return nil
}
