package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Channel is the delivery medium of a notification.
type Channel int16

const (
	ChannelSystem Channel = 1
	ChannelPush   Channel = 2
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelSystem || c == ChannelPush
}

func (c Channel) String() string {
	switch c {
	case ChannelSystem:
		return "system"
	case ChannelPush:
		return "push"
	default:
		return "unknown"
	}
}

// ParseChannel accepts the numeric wire form ("1", "2").
func ParseChannel(raw string) (Channel, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || !Channel(n).Valid() {
		return 0, fmt.Errorf("invalid notification type %q", raw)
	}
	return Channel(n), nil
}

// Status tracks whether the user has seen a notification.
type Status int16

const (
	StatusUnseen Status = 0
	StatusSeen   Status = 1
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusUnseen || s == StatusSeen
}

func (s Status) String() string {
	switch s {
	case StatusUnseen:
		return "unseen"
	case StatusSeen:
		return "seen"
	default:
		return "unknown"
	}
}

// ParseStatus accepts the numeric wire form ("0", "1").
func ParseStatus(raw string) (Status, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || !Status(n).Valid() {
		return 0, fmt.Errorf("invalid status %q", raw)
	}
	return Status(n), nil
}

// UserNotification is a notification issued to one user. Rendered text is never stored;
// it is derived from the template and Options at read time.
type UserNotification struct {
	ID         uint                  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint                  `gorm:"not null;index:idx_user_notification_user_status" json:"user"`
	User       *User                 `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TemplateID uint                  `gorm:"column:notification_template_id;not null;index" json:"notification_template_id"`
	Template   *NotificationTemplate `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"-"`
	Channel    Channel               `gorm:"column:notification_type;type:smallint;not null" json:"notification_type"`
	Status     Status                `gorm:"type:smallint;not null;default:0;index:idx_user_notification_user_status" json:"status"`
	CreatedAt  time.Time             `gorm:"column:created;index" json:"created"`
	Options    []NotificationOption  `gorm:"foreignKey:UserNotificationID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the historical table name.
func (UserNotification) TableName() string { return "user_notification" }

// NotificationOption is one ordered value substituted into a template. Position records
// the order supplied at creation.
type NotificationOption struct {
	ID                 uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	UserNotificationID uint   `gorm:"not null;index" json:"-"`
	Position           int    `gorm:"not null;default:0" json:"-"`
	FieldID            int16  `gorm:"not null" json:"field_id"`
	Text               string `gorm:"column:txt;type:varchar(32);not null" json:"txt"`
}

// TableName keeps the historical table name.
func (NotificationOption) TableName() string { return "user_notification_option" }

// OptionValues returns option texts in stored order.
func (n UserNotification) OptionValues() []string {
	if len(n.Options) == 0 {
		return nil
	}
	values := make([]string, len(n.Options))
	for i, opt := range n.Options {
		values[i] = opt.Text
	}
	return values
}
