package models

// DefaultLanguageID is assigned to users that never chose a language.
const DefaultLanguageID uint = 1

// Language identifies a translation target such as "en" or "de".
type Language struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"type:varchar(32);uniqueIndex;not null" json:"name"`
	Title string `gorm:"type:varchar(32)" json:"title"`
}

// TableName keeps the historical table name.
func (Language) TableName() string { return "language" }
