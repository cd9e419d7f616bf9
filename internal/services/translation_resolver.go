package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/notifyhub/internal/cache"
	"github.com/charlesng35/notifyhub/internal/models"
	"github.com/charlesng35/notifyhub/internal/notify"
	"github.com/charlesng35/notifyhub/pkg/logger"
	"github.com/charlesng35/notifyhub/pkg/metrics"
)

const defaultTranslationTTL = 5 * time.Minute

// cachedTranslation is the cache payload; a nil Text records that no translation exists.
type cachedTranslation struct {
	Text *string `json:"text"`
}

// TranslationResolver loads template text translations for a language, reading through an
// optional cache. Lookup failures degrade to the template default text.
type TranslationResolver struct {
	db    *gorm.DB
	cache cache.Store
	ttl   time.Duration
	log   *zap.Logger
}

// ResolverOption customises the TranslationResolver.
type ResolverOption func(*TranslationResolver)

// WithTranslationCache enables cache-aside lookups against store.
func WithTranslationCache(store cache.Store, ttl time.Duration) ResolverOption {
	return func(r *TranslationResolver) {
		r.cache = store
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// NewTranslationResolver constructs a TranslationResolver.
func NewTranslationResolver(db *gorm.DB, opts ...ResolverOption) (*TranslationResolver, error) {
	if db == nil {
		return nil, errors.New("translation resolver: db is required")
	}
	r := &TranslationResolver{
		db:  db,
		ttl: defaultTranslationTTL,
		log: logger.WithModule("translations"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Catalog returns the text translations of templateIDs for languageID. It never fails: when
// the store cannot be read the returned catalog is partial and callers fall back to defaults.
func (r *TranslationResolver) Catalog(ctx context.Context, languageID uint, templateIDs []uint) notify.Catalog {
	ctx = ensureContext(ctx)
	catalog := notify.NewCatalog(languageID, nil)
	if len(templateIDs) == 0 {
		return catalog
	}

	misses := make([]uint, 0, len(templateIDs))
	for _, id := range uniqueIDs(templateIDs) {
		entry, ok := r.cached(ctx, id, languageID)
		if !ok {
			misses = append(misses, id)
			continue
		}
		if entry.Text == nil {
			metrics.TranslationLookups.WithLabelValues("fallback").Inc()
			continue
		}
		metrics.TranslationLookups.WithLabelValues("cache").Inc()
		catalog.Add(models.Translation{
			TemplateID: id,
			Field:      models.FieldText,
			LanguageID: languageID,
			Text:       entry.Text,
		})
	}
	if len(misses) == 0 {
		return catalog
	}

	var rows []models.Translation
	err := r.db.WithContext(ctx).
		Where("template_id IN ? AND language_id = ? AND translation_field_id = ?", misses, languageID, models.FieldText).
		Find(&rows).Error
	if err != nil {
		r.log.Warn("translation lookup failed; using default text",
			zap.Uint("language_id", languageID), zap.Error(err))
		metrics.TranslationLookups.WithLabelValues("fallback").Add(float64(len(misses)))
		return catalog
	}

	for _, row := range rows {
		catalog.Add(row)
	}
	for _, id := range misses {
		text, found := catalog.Lookup(id)
		entry := cachedTranslation{}
		if found {
			entry.Text = &text
			metrics.TranslationLookups.WithLabelValues("store").Inc()
		} else {
			metrics.TranslationLookups.WithLabelValues("fallback").Inc()
		}
		r.store(ctx, id, languageID, entry)
	}
	return catalog
}

// Resolve returns the localized text of one template.
func (r *TranslationResolver) Resolve(ctx context.Context, tmpl models.NotificationTemplate, languageID uint) string {
	return r.Catalog(ctx, languageID, []uint{tmpl.ID}).Resolve(tmpl)
}

func (r *TranslationResolver) cached(ctx context.Context, templateID, languageID uint) (cachedTranslation, bool) {
	if r.cache == nil {
		return cachedTranslation{}, false
	}
	raw, ok, err := r.cache.Get(ctx, translationKey(templateID, languageID))
	if err != nil {
		r.log.Warn("translation cache read failed", zap.Error(err))
		return cachedTranslation{}, false
	}
	if !ok {
		return cachedTranslation{}, false
	}
	var entry cachedTranslation
	if err := json.Unmarshal(raw, &entry); err != nil {
		r.log.Warn("discarding malformed translation cache entry", zap.Error(err))
		return cachedTranslation{}, false
	}
	return entry, true
}

func (r *TranslationResolver) store(ctx context.Context, templateID, languageID uint, entry cachedTranslation) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, translationKey(templateID, languageID), raw, r.ttl); err != nil {
		r.log.Warn("translation cache write failed", zap.Error(err))
	}
}

func translationKey(templateID, languageID uint) string {
	return fmt.Sprintf("translation:%d:%d", templateID, languageID)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
