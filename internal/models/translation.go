package models

// TranslationField names the template attribute a translation replaces.
type TranslationField int16

const (
	FieldName        TranslationField = 1
	FieldTitle       TranslationField = 2
	FieldDescription TranslationField = 3
	FieldText        TranslationField = 4
	FieldQuestion    TranslationField = 5
	FieldAnswer      TranslationField = 6
	FieldAdditional  TranslationField = 7
)

// Translation is a localized variant of one template field. At most one row exists per
// (template, field, language).
type Translation struct {
	ID         uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	TemplateID uint             `gorm:"uniqueIndex:idx_translation_owner_field_lang;not null" json:"template_id"`
	Field      TranslationField `gorm:"column:translation_field_id;uniqueIndex:idx_translation_owner_field_lang;not null" json:"field"`
	LanguageID uint             `gorm:"uniqueIndex:idx_translation_owner_field_lang;not null" json:"language_id"`
	Text       *string          `gorm:"type:varchar(255)" json:"text"`
}

// TableName keeps the historical table name.
func (Translation) TableName() string { return "translation_string" }
