package notify

import (
	"sort"

	"github.com/charlesng35/notifyhub/internal/models"
)

// Disallowed is the pair of opt-out lists for one user: categories muted on the system
// channel and categories muted on the push channel. The lists are independent.
type Disallowed struct {
	System map[uint]struct{}
	Push   map[uint]struct{}
}

// DisallowedFromSettings derives the opt-out lists from a user's stored settings.
func DisallowedFromSettings(settings []models.UserNotificationSetting) Disallowed {
	d := Disallowed{
		System: make(map[uint]struct{}),
		Push:   make(map[uint]struct{}),
	}
	for _, s := range settings {
		if !s.SystemNotification {
			d.System[s.CategoryID] = struct{}{}
		}
		if !s.PushNotification {
			d.Push[s.CategoryID] = struct{}{}
		}
	}
	return d
}

// Suppresses reports whether a notification on channel for categoryID must be hidden.
// Only the list for the notification's own channel is consulted.
func (d Disallowed) Suppresses(channel models.Channel, categoryID uint) bool {
	switch channel {
	case models.ChannelSystem:
		_, muted := d.System[categoryID]
		return muted
	case models.ChannelPush:
		_, muted := d.Push[categoryID]
		return muted
	default:
		return false
	}
}

// Empty reports whether nothing is muted.
func (d Disallowed) Empty() bool {
	return len(d.System) == 0 && len(d.Push) == 0
}

// SystemIDs returns the system-muted category ids in ascending order.
func (d Disallowed) SystemIDs() []uint { return sortedIDs(d.System) }

// PushIDs returns the push-muted category ids in ascending order.
func (d Disallowed) PushIDs() []uint { return sortedIDs(d.Push) }

// FilterByPreference drops candidates the user muted for their channel. Candidates must have
// Template loaded; a candidate whose category is unknown is kept since absence of a
// preference never suppresses.
func FilterByPreference(candidates []models.UserNotification, d Disallowed) []models.UserNotification {
	if d.Empty() {
		return candidates
	}
	out := make([]models.UserNotification, 0, len(candidates))
	for _, n := range candidates {
		if n.Template != nil && d.Suppresses(n.Channel, n.Template.CategoryID) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func sortedIDs(set map[uint]struct{}) []uint {
	if len(set) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
