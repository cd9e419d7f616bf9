package notify

import "github.com/charlesng35/notifyhub/internal/models"

// Catalog holds display-text translations for one language keyed by template id.
// The zero value resolves every template to its default text.
type Catalog struct {
	LanguageID uint
	texts      map[uint]string
}

// NewCatalog indexes translation rows for languageID. Rows for other languages or fields,
// and rows with a NULL text, are ignored.
func NewCatalog(languageID uint, rows []models.Translation) Catalog {
	c := Catalog{LanguageID: languageID, texts: make(map[uint]string, len(rows))}
	for _, row := range rows {
		c.Add(row)
	}
	return c
}

// Add records a translation row if it applies to the catalog's language.
func (c *Catalog) Add(row models.Translation) {
	if row.LanguageID != c.LanguageID || row.Field != models.FieldText || row.Text == nil {
		return
	}
	if c.texts == nil {
		c.texts = make(map[uint]string)
	}
	c.texts[row.TemplateID] = *row.Text
}

// Lookup returns the translated text for a template, if one exists.
func (c Catalog) Lookup(templateID uint) (string, bool) {
	text, ok := c.texts[templateID]
	return text, ok
}

// Resolve returns the localized text for tmpl, falling back to its default text.
func (c Catalog) Resolve(tmpl models.NotificationTemplate) string {
	if text, ok := c.Lookup(tmpl.ID); ok {
		return text
	}
	return tmpl.Text
}

// ResolveText picks the translation of tmpl's text for languageID among rows, falling back
// to the template's default text. Absence of a translation is not an error.
func ResolveText(tmpl models.NotificationTemplate, rows []models.Translation, languageID uint) string {
	return NewCatalog(languageID, rows).Resolve(tmpl)
}
