package models

// NotificationCategory groups templates for preference purposes.
type NotificationCategory struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"type:varchar(32);not null" json:"name"`
	Title string `gorm:"type:varchar(32);not null" json:"title"`
}

// TableName keeps the historical table name.
func (NotificationCategory) TableName() string { return "notification_category" }
