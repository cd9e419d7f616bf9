package models

// NotificationTemplate is a reusable notification definition. Text holds the default
// (untranslated) pattern with positional placeholders such as "{1}".
type NotificationTemplate struct {
	ID           uint                  `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID   uint                  `gorm:"column:notification_category_id;not null;index" json:"notification_category_id"`
	Category     *NotificationCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
	Name         string                `gorm:"type:varchar(32);not null" json:"name"`
	Text         string                `gorm:"column:txt;type:varchar(255);not null" json:"txt"`
	Translations []Translation         `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the historical table name.
func (NotificationTemplate) TableName() string { return "notification_template" }
