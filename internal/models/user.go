package models

// User is the subset of the user directory the notification core depends on:
// identity and the language that drives translation resolution.
type User struct {
	BaseModel

	FirstName  string    `gorm:"type:varchar(255)" json:"first_name"`
	LastName   string    `gorm:"type:varchar(255)" json:"last_name"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	LanguageID uint      `gorm:"not null;default:1" json:"language_id"`
	Language   *Language `json:"-"`
}

// TableName keeps the historical table name.
func (User) TableName() string { return "user" }
