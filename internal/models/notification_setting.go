package models

// UserNotificationSetting stores a user's per-category channel opt-outs. A missing row means
// every channel is allowed. The pair (user, category) is unique so writes can upsert atomically.
type UserNotificationSetting struct {
	ID                 uint                  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             uint                  `gorm:"not null;uniqueIndex:idx_setting_user_category" json:"user"`
	User               *User                 `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CategoryID         uint                  `gorm:"column:notification_category_id;not null;uniqueIndex:idx_setting_user_category" json:"notification_template_id"`
	Category           *NotificationCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
	SystemNotification bool                  `gorm:"not null" json:"system_notification"`
	PushNotification   bool                  `gorm:"not null" json:"push_notification"`
}

// TableName keeps the historical table name.
func (UserNotificationSetting) TableName() string { return "user_notification_setting" }

// Allows reports whether the setting permits delivery on the channel.
func (s UserNotificationSetting) Allows(channel Channel) bool {
	switch channel {
	case ChannelSystem:
		return s.SystemNotification
	case ChannelPush:
		return s.PushNotification
	default:
		return true
	}
}
