package lifecycle

import (
	"time"

	"github.com/noah-isme/sma-bulletin-api/internal/models"
	appErrors "github.com/noah-isme/sma-bulletin-api/pkg/errors"
)

// Archive stamps archived_at/archived_by. Passing models.SystemActor makes the
// archival permanent: Restore will refuse it.
func Archive(item *models.Announcement, actor models.Actor, now time.Time) error {
	if err := ensureLive(item); err != nil {
		return err
	}
	if item.Status == models.AnnouncementStatusArchived {
		return invalidFrom(ActionArchive, item.Status)
	}
	if actor.ID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "archive requires an actor")
	}
	markArchived(item, actor.ID, now)
	return nil
}

// Restore undoes a user archival and/or a soft delete. The announcement always
// comes back as published.
func Restore(item *models.Announcement, now time.Time) error {
	if item.IsSystemArchived() {
		return appErrors.Clone(appErrors.ErrValidation, errCannotRestoreSystem)
	}
	archived := item.Status == models.AnnouncementStatusArchived || item.ArchivedAt != nil
	if !archived && !item.IsDeleted() {
		return appErrors.Clone(appErrors.ErrNotFound, errNothingToRestore)
	}
	item.DeletedAt = nil
	item.ArchivedAt = nil
	item.ArchivedBy = nil
	item.Status = models.AnnouncementStatusPublished
	if item.PublishedAt == nil {
		item.PublishedAt = timePtr(now)
	}
	item.UpdatedAt = now
	return nil
}

// SweepExpired archives a published announcement whose visibility window has
// closed. It reports false when the item is not eligible.
func SweepExpired(item *models.Announcement, now time.Time) bool {
	if item.IsDeleted() || item.Status != models.AnnouncementStatusPublished {
		return false
	}
	if item.VisibilityEndAt == nil || !item.VisibilityEndAt.Before(now) {
		return false
	}
	markArchived(item, models.ArchivedBySystem, now)
	return true
}
