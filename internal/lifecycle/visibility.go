package lifecycle

import (
	"time"

	"github.com/noah-isme/sma-bulletin-api/internal/models"
)

// IsVisible applies the optional visibility window. It does not look at status.
func IsVisible(item *models.Announcement, now time.Time) bool {
	if item.VisibilityStartAt != nil && item.VisibilityStartAt.After(now) {
		return false
	}
	if item.VisibilityEndAt != nil && item.VisibilityEndAt.Before(now) {
		return false
	}
	return true
}

// FilterVisible keeps the announcements whose window is open at now.
func FilterVisible(items []models.Announcement, now time.Time) []models.Announcement {
	out := make([]models.Announcement, 0, len(items))
	for i := range items {
		if IsVisible(&items[i], now) {
			out = append(out, items[i])
		}
	}
	return out
}
