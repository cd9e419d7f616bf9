package models

import (
	"time"
)

// BaseModel provides shared fields for persistent models addressed by integer ids,
// matching the numeric ids used in request paths.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created"`
	UpdatedAt time.Time `json:"-"`
}
