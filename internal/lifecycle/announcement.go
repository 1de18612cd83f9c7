// Package lifecycle validates and applies content state transitions. The
// functions mutate the item in memory only; callers persist the result with a
// conditional update keyed on the pre-transition state.
package lifecycle

import (
	"time"

	"github.com/noah-isme/sma-bulletin-api/internal/models"
	appErrors "github.com/noah-isme/sma-bulletin-api/pkg/errors"
)

// Action names a lifecycle operation.
type Action string

const (
	ActionSubmit            Action = "submit"
	ActionApprove           Action = "approve"
	ActionReject            Action = "reject"
	ActionPublish           Action = "publish"
	ActionUnpublish         Action = "unpublish"
	ActionArchive           Action = "archive"
	ActionRestore           Action = "restore"
	ActionSoftDelete        Action = "soft_delete"
	ActionPermanentlyDelete Action = "permanent_delete"
)

const (
	errCannotRestoreSystem = "cannot restore system-archived content"
	errNothingToRestore    = "content is neither archived nor deleted"
)

// CanApprove reports whether the actor holds the approval role.
func CanApprove(actor models.Actor) bool {
	return actor.Role.Privileged()
}

// CanAuthor reports whether the actor may act as the item's author.
func CanAuthor(item *models.Announcement, actor models.Actor) bool {
	return actor.Role.Privileged() || (actor.ID != "" && actor.ID == item.AuthorID)
}

// Submit moves a draft into the approval queue.
func Submit(item *models.Announcement, actor models.Actor, now time.Time) error {
	if err := ensureLive(item); err != nil {
		return err
	}
	if item.Status != models.AnnouncementStatusDraft {
		return invalidFrom(ActionSubmit, item.Status)
	}
	if !CanAuthor(item, actor) {
		return appErrors.Clone(appErrors.ErrValidation, "only the author may submit this announcement")
	}
	item.Status = models.AnnouncementStatusPending
	item.UpdatedAt = now
	return nil
}

// Approve publishes a pending announcement.
func Approve(item *models.Announcement, actor models.Actor, now time.Time) error {
	if err := ensureLive(item); err != nil {
		return err
	}
	if item.Status != models.AnnouncementStatusPending {
		return invalidFrom(ActionApprove, item.Status)
	}
	if !CanApprove(actor) {
		return appErrors.Clone(appErrors.ErrValidation, "actor lacks the approval role")
	}
	approver := actor.ID
	item.Status = models.AnnouncementStatusPublished
	item.ApprovedBy = &approver
	item.ApprovedAt = timePtr(now)
	item.PublishedAt = timePtr(now)
	item.UpdatedAt = now
	return nil
}

// Reject archives a pending announcement on behalf of the reviewer. The row is
// user-archived and therefore restorable.
func Reject(item *models.Announcement, actor models.Actor, now time.Time) error {
	if err := ensureLive(item); err != nil {
		return err
	}
	if item.Status != models.AnnouncementStatusPending {
		return invalidFrom(ActionReject, item.Status)
	}
	if !CanApprove(actor) {
		return appErrors.Clone(appErrors.ErrValidation, "actor lacks the approval role")
	}
	markArchived(item, actor.ID, now)
	return nil
}

// Publish is the administrative override into published, bypassing approval.
func Publish(item *models.Announcement, now time.Time) error {
	if err := ensureLive(item); err != nil {
		return err
	}
	if item.Status == models.AnnouncementStatusPublished {
		return invalidFrom(ActionPublish, item.Status)
	}
	if item.IsSystemArchived() {
		return appErrors.Clone(appErrors.ErrValidation, "cannot publish system-archived content")
	}
	item.Status = models.AnnouncementStatusPublished
	item.PublishedAt = timePtr(now)
	item.ArchivedAt = nil
	item.ArchivedBy = nil
	item.UpdatedAt = now
	return nil
}

// Unpublish returns a published announcement to draft.
func Unpublish(item *models.Announcement, now time.Time) error {
	if err := ensureLive(item); err != nil {
		return err
	}
	if item.Status != models.AnnouncementStatusPublished {
		return invalidFrom(ActionUnpublish, item.Status)
	}
	item.Status = models.AnnouncementStatusDraft
	item.PublishedAt = nil
	item.UpdatedAt = now
	return nil
}

// SoftDelete stamps deleted_at. Status is left untouched.
func SoftDelete(item *models.Announcement, now time.Time) error {
	if item.IsDeleted() {
		return appErrors.Clone(appErrors.ErrValidation, "announcement already deleted")
	}
	item.DeletedAt = timePtr(now)
	item.UpdatedAt = now
	return nil
}

// CheckPermanentDelete allows permanent removal of archived or soft-deleted rows only.
func CheckPermanentDelete(item *models.Announcement) error {
	if item.Status == models.AnnouncementStatusArchived || item.IsDeleted() {
		return nil
	}
	return appErrors.Clone(appErrors.ErrValidation, "only archived or deleted announcements can be permanently deleted")
}

func ensureLive(item *models.Announcement) error {
	if item.IsDeleted() {
		return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
	}
	return nil
}

func invalidFrom(action Action, status models.AnnouncementStatus) error {
	return appErrors.Clone(appErrors.ErrValidation, "cannot "+string(action)+" announcement in status "+string(status))
}

func markArchived(item *models.Announcement, by string, now time.Time) {
	item.Status = models.AnnouncementStatusArchived
	item.ArchivedAt = timePtr(now)
	item.ArchivedBy = &by
	item.UpdatedAt = now
}

func timePtr(t time.Time) *time.Time {
	return &t
}
