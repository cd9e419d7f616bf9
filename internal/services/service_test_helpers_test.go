package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/notifyhub/internal/database/testutil"
	"github.com/charlesng35/notifyhub/internal/models"
	"github.com/charlesng35/notifyhub/internal/realtime"
)

type fixture struct {
	t        *testing.T
	db       *gorm.DB
	english  models.Language
	german   models.Language
	security models.NotificationCategory
	billing  models.NotificationCategory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	f := &fixture{t: t, db: db}

	require.NoError(t, db.First(&f.english, models.DefaultLanguageID).Error)
	f.german = models.Language{Name: "de", Title: "Deutsch"}
	require.NoError(t, db.Create(&f.german).Error)

	f.security = models.NotificationCategory{Name: "security", Title: "Security"}
	f.billing = models.NotificationCategory{Name: "billing", Title: "Billing"}
	require.NoError(t, db.Create(&f.security).Error)
	require.NoError(t, db.Create(&f.billing).Error)
	return f
}

func (f *fixture) user(email string, languageID uint) models.User {
	f.t.Helper()
	user := models.User{Email: email, LanguageID: languageID}
	require.NoError(f.t, f.db.Create(&user).Error)
	return user
}

func (f *fixture) template(category models.NotificationCategory, name, text string) models.NotificationTemplate {
	f.t.Helper()
	tmpl := models.NotificationTemplate{CategoryID: category.ID, Name: name, Text: text}
	require.NoError(f.t, f.db.Create(&tmpl).Error)
	return tmpl
}

func (f *fixture) translate(tmpl models.NotificationTemplate, lang models.Language, text string) {
	f.t.Helper()
	row := models.Translation{TemplateID: tmpl.ID, Field: models.FieldText, LanguageID: lang.ID, Text: &text}
	require.NoError(f.t, f.db.Create(&row).Error)
}

func (f *fixture) notification(user models.User, tmpl models.NotificationTemplate, channel models.Channel, options ...string) models.UserNotification {
	f.t.Helper()
	n := models.UserNotification{UserID: user.ID, TemplateID: tmpl.ID, Channel: channel}
	for i, text := range options {
		n.Options = append(n.Options, models.NotificationOption{Position: i, FieldID: 1, Text: text})
	}
	require.NoError(f.t, f.db.Create(&n).Error)
	return n
}

func (f *fixture) setting(user models.User, category models.NotificationCategory, system, push bool) {
	f.t.Helper()
	row := models.UserNotificationSetting{UserID: user.ID, CategoryID: category.ID, SystemNotification: system, PushNotification: push}
	require.NoError(f.t, f.db.Create(&row).Error)
}

func (f *fixture) notificationService(hub Broadcaster, opts ...ResolverOption) *NotificationService {
	f.t.Helper()
	resolver, err := NewTranslationResolver(f.db, opts...)
	require.NoError(f.t, err)
	svc, err := NewNotificationService(f.db, resolver, hub)
	require.NoError(f.t, err)
	return svc
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages map[uint][]realtime.Message
}

func (r *recordingBroadcaster) BroadcastToUser(userID uint, message realtime.Message) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.messages == nil {
		r.messages = make(map[uint][]realtime.Message)
	}
	r.messages[userID] = append(r.messages[userID], message)
	return 1
}

func (r *recordingBroadcaster) count(userID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages[userID])
}

func itemIDs(items []NotificationItem) []uint {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
